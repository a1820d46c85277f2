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
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra"
)

type Lister interface {
	// List returns the names of the functions attached to any version of
	// the layer of layerArn. Errors are logged, never returned: an empty
	// result means either no consumers or a failed listing.
	List(ctx context.Context, layerArn string) []string
}

type lister struct {
	client API
}

func NewLister(client API) Lister {
	return &lister{client: client}
}

func (l *lister) List(ctx context.Context, layerArn string) []string {
	functions, err := l.listAll(ctx)
	if err != nil {
		logrus.Errorf("%v", errdefs.New(errdefs.KindListing, fmt.Sprintf("list consumers of %s", layerArn), err))
		return []string{}
	}

	base := TrimLayerVersion(layerArn)
	names := []string{}
	for _, fn := range functions {
		if usesLayer(fn, base) {
			names = append(names, aws.ToString(fn.FunctionName))
		}
	}
	logrus.Debugf("found %d of %d functions using %s", len(names), len(functions), base)
	return names
}

// listAll walks every page until the platform stops returning a marker.
func (l *lister) listAll(ctx context.Context) ([]types.FunctionConfiguration, error) {
	var (
		functions []types.FunctionConfiguration
		marker    *string
	)
	for {
		out, err := l.client.ListFunctions(ctx, &lambda.ListFunctionsInput{Marker: marker})
		if err != nil {
			return nil, err
		}
		if err := infra.CheckResponse(out.ResultMetadata); err != nil {
			return nil, fmt.Errorf("%v: %s", err, infra.Serialize(out))
		}
		functions = append(functions, out.Functions...)
		if aws.ToString(out.NextMarker) == "" {
			return functions, nil
		}
		marker = out.NextMarker
	}
}

func usesLayer(fn types.FunctionConfiguration, base string) bool {
	for _, layer := range fn.Layers {
		if strings.HasPrefix(aws.ToString(layer.Arn), base+":") {
			return true
		}
	}
	return false
}

// TrimLayerVersion drops the trailing version of a layer version ARN, e.g.
// arn:aws:lambda:us-east-1:123456789012:layer:libs:9 becomes
// arn:aws:lambda:us-east-1:123456789012:layer:libs. An ARN without a numeric
// version is returned unchanged.
func TrimLayerVersion(layerArn string) string {
	i := strings.LastIndex(layerArn, ":")
	if i < 0 {
		return layerArn
	}
	if _, err := strconv.ParseUint(layerArn[i+1:], 10, 64); err != nil {
		return layerArn
	}
	return layerArn[:i]
}
