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

package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/sealerio/layerpub/common"
	"github.com/sealerio/layerpub/pkg/consumer"
	"github.com/sealerio/layerpub/pkg/layer"
	"github.com/sealerio/layerpub/pkg/publisher"
	osi "github.com/sealerio/layerpub/utils/os"
)

// PrintToStd writes v to w in the given format.
func PrintToStd(w io.Writer, v interface{}, output string) error {
	var (
		marshalled []byte
		err        error
	)
	switch output {
	case common.OutputFormatYAML:
		marshalled, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("fail to marshal yaml: %w", err)
		}
	case common.OutputFormatJSON:
		marshalled, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("fail to marshal json: %w", err)
		}
	default:
		return fmt.Errorf("output format %q should have been rejected", output)
	}
	_, err = fmt.Fprintln(w, string(marshalled))
	return err
}

// WriteGitHubOutput appends the published version to the step output file
// when running inside GitHub Actions. Outside of it this is a no-op.
func WriteGitHubOutput(result *layer.PublishResult) error {
	file := os.Getenv(common.GitHubOutputEnv)
	if file == "" || result == nil {
		return nil
	}

	content := fmt.Sprintf("%s=%s\n%s=%d\n",
		common.OutputLayerVersionArn, result.LayerVersionArn,
		common.OutputLayerVersion, result.Version)
	if err := osi.NewAppendWriter(file).WriteFile([]byte(content)); err != nil {
		return fmt.Errorf("failed to write step outputs to %s: %v", file, err)
	}
	logrus.Debugf("wrote %s to %s", common.OutputLayerVersionArn, file)
	return nil
}

func PrintPublishTable(w io.Writer, result *publisher.Result) {
	staged := "-"
	if result.Staged != nil {
		staged = result.Staged.String()
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"layer version arn", "version", "path", "size", "staged object"})
	table.Append([]string{
		result.Layer.LayerVersionArn,
		strconv.FormatInt(result.Layer.Version, 10),
		string(result.Path),
		strconv.FormatInt(result.Size, 10),
		staged,
	})
	table.Render()
}

func PrintRefreshTable(w io.Writer, results []consumer.RefreshResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"function", "function arn", "layers"})
	for _, r := range results {
		table.Append([]string{r.FunctionName, r.FunctionArn, strings.Join(r.Layers, ",")})
	}
	table.Render()
}
