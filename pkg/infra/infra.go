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

package infra

import (
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sealerio/layerpub/pkg/errdefs"
)

// Credentials is the opaque credential set every remote call of a run uses.
// It is never persisted.
type Credentials struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// SessionToken is optional, set when running with temporary credentials.
	SessionToken string
	// Endpoint overrides the service endpoint of both Lambda and S3, for
	// example a LocalStack address.
	Endpoint string
}

func (c Credentials) Validate() error {
	if c.Region == "" {
		return errdefs.Configuration("region is required")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return errdefs.Configuration("access key id and secret access key are required")
	}
	return nil
}

// String never prints the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("region=%s accessKeyID=%s", c.Region, c.AccessKeyID)
}

// ClientFactory builds the Lambda and S3 clients of a single run from one
// Credentials value. Construct it once and hand it to each component.
type ClientFactory struct {
	config   awssdk.Config
	endpoint string
}

func NewClientFactory(creds Credentials) (*ClientFactory, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)
	return &ClientFactory{
		config: awssdk.Config{
			Region:      creds.Region,
			Credentials: awssdk.NewCredentialsCache(provider),
		},
		endpoint: creds.Endpoint,
	}, nil
}

func (f *ClientFactory) Lambda() *lambda.Client {
	return lambda.NewFromConfig(f.config, func(o *lambda.Options) {
		if f.endpoint != "" {
			o.BaseEndpoint = awssdk.String(f.endpoint)
		}
	})
}

func (f *ClientFactory) S3() *s3.Client {
	return s3.NewFromConfig(f.config, func(o *s3.Options) {
		if f.endpoint != "" {
			o.BaseEndpoint = awssdk.String(f.endpoint)
			// custom endpoints rarely serve virtual-hosted buckets
			o.UsePathStyle = true
		}
	})
}
