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

package layer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/layerpub/pkg/artifact"
	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra"
	"github.com/sealerio/layerpub/pkg/staging"
	"github.com/sealerio/layerpub/utils/hash"
)

// Spec describes one layer version to publish. Exactly one content source is
// used: the staged object when Staged is set, the bytes at ArchivePath
// otherwise.
type Spec struct {
	Name        string
	Description string
	// Architectures and Runtimes are passed through unvalidated, the
	// platform rejects values it does not know.
	Architectures []string
	Runtimes      []string
	ArchivePath   string
	Staged        *staging.StagedObject
}

type PublishResult struct {
	LayerArn        string `json:"layerArn" yaml:"layerArn"`
	LayerVersionArn string `json:"layerVersionArn" yaml:"layerVersionArn"`
	Version         int64  `json:"version" yaml:"version"`
	// CodeSha256 is the base64 sha256 of the package as stored by Lambda.
	CodeSha256 string `json:"codeSha256,omitempty" yaml:"codeSha256,omitempty"`
}

// API is the subset of the Lambda client used to publish layers.
type API interface {
	PublishLayerVersion(ctx context.Context, params *lambda.PublishLayerVersionInput, optFns ...func(*lambda.Options)) (*lambda.PublishLayerVersionOutput, error)
}

type Publisher interface {
	Publish(ctx context.Context, spec Spec) (*PublishResult, error)
}

type publisher struct {
	client API
}

func NewPublisher(client API) Publisher {
	return &publisher{client: client}
}

func (p *publisher) Publish(ctx context.Context, spec Spec) (*PublishResult, error) {
	op := fmt.Sprintf("publish layer %s", spec.Name)

	content, err := contentOf(spec)
	if err != nil {
		return nil, err
	}

	out, err := p.client.PublishLayerVersion(ctx, &lambda.PublishLayerVersionInput{
		LayerName:               aws.String(spec.Name),
		Description:             aws.String(spec.Description),
		Content:                 content,
		CompatibleArchitectures: toArchitectures(spec.Architectures),
		CompatibleRuntimes:      toRuntimes(spec.Runtimes),
	})
	if err != nil {
		return nil, errdefs.NewWithDetail(errdefs.KindPublish, op, err.Error(), err)
	}
	if err := infra.CheckResponse(out.ResultMetadata); err != nil {
		detail := infra.Serialize(out)
		logrus.Errorf("unexpected response while publishing layer %s: %s", spec.Name, detail)
		return nil, errdefs.NewWithDetail(errdefs.KindPublish, op, detail, err)
	}
	// consumers are repointed at this arn, an empty one would strip their layers
	if aws.ToString(out.LayerVersionArn) == "" {
		detail := infra.Serialize(out)
		logrus.Errorf("response for layer %s carries no layer version arn: %s", spec.Name, detail)
		return nil, errdefs.NewWithDetail(errdefs.KindPublish, op, detail, errors.New("response carries no layer version arn"))
	}

	result := &PublishResult{
		LayerArn:        aws.ToString(out.LayerArn),
		LayerVersionArn: aws.ToString(out.LayerVersionArn),
		Version:         out.Version,
	}
	if out.Content != nil {
		result.CodeSha256 = aws.ToString(out.Content.CodeSha256)
	}
	if err := verifyCodeSha256(spec, result.CodeSha256); err != nil {
		return nil, errdefs.NewWithDetail(errdefs.KindPublish, op, infra.Serialize(out), err)
	}
	logrus.Infof("succeeded in publishing layer %s version %d: %s", spec.Name, result.Version, result.LayerVersionArn)
	return result, nil
}

func contentOf(spec Spec) (*types.LayerVersionContentInput, error) {
	if spec.Name == "" {
		return nil, errdefs.Configuration("layer name is required")
	}

	if spec.Staged != nil {
		if spec.Staged.Bucket == "" || spec.Staged.Key == "" {
			return nil, errdefs.Configuration("staged object of layer %s has no bucket or key", spec.Name)
		}
		logrus.Debugf("publishing layer %s from %s", spec.Name, spec.Staged)
		return &types.LayerVersionContentInput{
			S3Bucket: aws.String(spec.Staged.Bucket),
			S3Key:    aws.String(spec.Staged.Key),
		}, nil
	}

	if spec.ArchivePath == "" {
		return nil, errdefs.Configuration("layer %s has neither an archive nor a staged object", spec.Name)
	}
	data, err := artifact.Read(spec.ArchivePath)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("publishing layer %s inline with %d bytes", spec.Name, len(data))
	return &types.LayerVersionContentInput{ZipFile: data}, nil
}

// verifyCodeSha256 compares the hash Lambda computed with the local archive.
// It is skipped when either side is unknown.
func verifyCodeSha256(spec Spec, remote string) error {
	if remote == "" || spec.ArchivePath == "" {
		return nil
	}
	local, err := hash.FileCodeSha256(spec.ArchivePath)
	if err != nil {
		return errors.Wrapf(err, "failed to hash %s", spec.ArchivePath)
	}
	if local != remote {
		return errors.Errorf("code sha256 mismatch: local archive %s has %s, published version has %s", spec.ArchivePath, local, remote)
	}
	logrus.Debugf("code sha256 of layer %s verified: %s", spec.Name, remote)
	return nil
}

func toArchitectures(in []string) []types.Architecture {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Architecture, 0, len(in))
	for _, a := range in {
		out = append(out, types.Architecture(a))
	}
	return out
}

func toRuntimes(in []string) []types.Runtime {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Runtime, 0, len(in))
	for _, r := range in {
		out = append(out, types.Runtime(r))
	}
	return out
}
