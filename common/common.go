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

package common

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

const (
	// InlinePublishThreshold is the largest archive, in bytes, published by
	// embedding the zip in the request. Anything bigger is staged through S3.
	InlinePublishThreshold int64 = 10000000

	StagingObjectSuffix = ".zip"
)

// NonErrorResponseCodes are the only HTTP statuses a remote call may return
// to be treated as successful.
var NonErrorResponseCodes = []int{200, 201, 204}

const (
	ExecBinaryFileName    = "layerpub"
	DefaultConfigFileName = ".layerpub.yaml"
	DefaultLogDirName     = "log"
	DefaultWorkDirName    = ".layerpub"
	TmpLogDir             = "/tmp/layerpub/log"
	FileMode0755          = 0755
	FileMode0644          = 0644
)

const (
	// GitHubOutputEnv points at the file GitHub Actions reads step outputs from.
	GitHubOutputEnv       = "GITHUB_OUTPUT"
	OutputLayerVersionArn = "layer_version_arn"
	OutputLayerVersion    = "layer_version"
	InputEnvPrefix        = "INPUT"
	OutputFormatYAML      = "yaml"
	OutputFormatJSON      = "json"
)

func GetHomeDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return os.TempDir()
	}
	return home
}

func DefaultLogDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return TmpLogDir
	}
	return filepath.Join(home, DefaultWorkDirName, DefaultLogDirName)
}

func DefaultConfigFile() string {
	return filepath.Join(GetHomeDir(), DefaultConfigFileName)
}
