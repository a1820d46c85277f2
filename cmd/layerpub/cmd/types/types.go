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

package types

// Flag and config keys. Every key is also read from INPUT_<KEY> with dashes
// replaced by underscores, which is how GitHub Actions passes inputs.
const (
	KeyRegion          = "region"
	KeyAccessKeyID     = "access-key-id"
	KeySecretAccessKey = "secret-access-key"
	KeySessionToken    = "session-token"
	KeyEndpointURL     = "endpoint-url"
	KeyLayerName       = "layer-name"
	KeyArchive         = "archive"
	KeyDescription     = "description"
	KeyRuntimes        = "runtimes"
	KeyArchitectures   = "architectures"
	KeyS3Bucket        = "s3-bucket"
	KeyFunctions       = "functions"
	KeyLayerArn        = "layer-arn"
	KeyProgress        = "progress"
	KeyOutput          = "output"
)

type PublishFlags struct {
	LayerName   string
	Archive     string
	Description string
	S3Bucket    string

	// JSON array encoded lists, e.g. '["python3.12","python3.11"]'
	Runtimes      string
	Architectures string
	// Functions is the explicit consumer set, empty skips the refresh.
	Functions string

	Progress bool
	// Output prints the publish result as yaml or json when set.
	Output string
}

type ConsumersFlags struct {
	LayerArn string
	Output   string
}

type RefreshFlags struct {
	LayerArn  string
	Functions string
	Output    string
}
