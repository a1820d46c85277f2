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

package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// set by -ldflags "-X github.com/sealerio/layerpub/pkg/version.gitVersion=..."
var (
	gitVersion   = "v0.0.0-master+$Format:%h$"
	gitCommit    = ""
	gitTreeState = ""
	buildDate    = "1970-01-01T00:00:00Z"
)

type Info struct {
	GitVersion   string `json:"gitVersion" yaml:"gitVersion"`
	GitCommit    string `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`
	GitTreeState string `json:"gitTreeState" yaml:"gitTreeState"`
	BuildDate    string `json:"buildDate" yaml:"buildDate"`
	GoVersion    string `json:"goVersion" yaml:"goVersion"`
	Compiler     string `json:"compiler" yaml:"compiler"`
	Platform     string `json:"platform" yaml:"platform"`
}

type Output struct {
	LayerpubVersion Info `json:"layerpubVersion,omitempty" yaml:"layerpubVersion,omitempty"`
}

func Get() Info {
	return Info{
		GitVersion:   gitVersion,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// GetSingleVersion returns the bare version string, used as a log prefix.
func GetSingleVersion() string {
	return gitVersion
}

func (info Info) String() string {
	if s, err := info.Text(); err == nil {
		return string(s)
	}

	return fmt.Sprintf("%s-%s", info.GitVersion, info.GitCommit)
}

// Text encodes the version information into UTF-8-encoded text and
// returns the result.
func (info Info) Text() ([]byte, error) {
	if info.GitCommit == "" {
		return []byte(info.GitVersion), nil
	}
	return json.Marshal(struct {
		Version string `json:"version"`
		Commit  string `json:"commit"`
	}{info.GitVersion, info.GitCommit})
}
