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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sealerio/layerpub/cmd/layerpub/cmd/utils"
	"github.com/sealerio/layerpub/common"
	"github.com/sealerio/layerpub/pkg/version"
)

var (
	shortPrint    bool
	versionOutput string
)

func NewVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version info",
		Args:    cobra.NoArgs,
		Example: `layerpub version`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionOutput != common.OutputFormatYAML && versionOutput != common.OutputFormatJSON {
				return fmt.Errorf("output format must be yaml or json")
			}
			if shortPrint {
				fmt.Println(version.Get().String())
				return nil
			}
			return utils.PrintToStd(os.Stdout, &version.Output{LayerpubVersion: version.Get()}, versionOutput)
		},
	}
	versionCmd.Flags().BoolVar(&shortPrint, "short", false, "If true, print just the version number.")
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", common.OutputFormatYAML, "choose `yaml` or `json` format to print version info")
	return versionCmd
}
