// Copyright © 2022 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package consumer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra"
	strUtils "github.com/sealerio/layerpub/utils/strings"
)

type RefreshResult struct {
	FunctionName string   `json:"functionName" yaml:"functionName"`
	FunctionArn  string   `json:"functionArn" yaml:"functionArn"`
	Layers       []string `json:"layers" yaml:"layers"`
}

type Refresher interface {
	// Refresh sets the layers of every function to exactly [layerArn],
	// dropping any other attached layer. Updates run concurrently. Any
	// failure fails the whole call; functions updated before it are not
	// rolled back.
	Refresh(ctx context.Context, functionNames []string, layerArn string) ([]RefreshResult, error)
}

type refresher struct {
	client API
}

func NewRefresher(client API) Refresher {
	return &refresher{client: client}
}

func (r *refresher) Refresh(ctx context.Context, functionNames []string, layerArn string) ([]RefreshResult, error) {
	names := strUtils.RemoveDuplicate(strUtils.RemoveEmpty(functionNames))
	if len(names) != len(functionNames) {
		logrus.Warnf("ignoring empty or duplicated function names in %v", functionNames)
	}
	if len(names) == 0 {
		return nil, nil
	}

	var (
		results = make([]RefreshResult, len(names))
		mu      sync.Mutex
		failed  []string
		merr    *multierror.Error
	)

	// no derived context, siblings keep running after a failure
	var eg errgroup.Group
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			res, err := r.update(ctx, name, layerArn)
			if err != nil {
				mu.Lock()
				failed = append(failed, name)
				merr = multierror.Append(merr, err)
				mu.Unlock()
				return err
			}
			results[i] = *res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		sort.Strings(failed)
		return nil, errdefs.New(errdefs.KindRefresh,
			fmt.Sprintf("refresh functions %v to %s", failed, layerArn), merr.ErrorOrNil())
	}

	logrus.Infof("succeeded in refreshing %d functions to %s", len(names), layerArn)
	return results, nil
}

func (r *refresher) update(ctx context.Context, name, layerArn string) (*RefreshResult, error) {
	out, err := r.client.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(name),
		Layers:       []string{layerArn},
	})
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", name, err)
	}
	if err := infra.CheckResponse(out.ResultMetadata); err != nil {
		logrus.Errorf("unexpected response while updating function %s: %s", name, infra.Serialize(out))
		return nil, fmt.Errorf("function %s: %w", name, err)
	}

	res := &RefreshResult{
		FunctionName: name,
		FunctionArn:  aws.ToString(out.FunctionArn),
	}
	for _, l := range out.Layers {
		res.Layers = append(res.Layers, aws.ToString(l.Arn))
	}
	logrus.Debugf("function %s now uses %v", name, res.Layers)
	return res, nil
}
