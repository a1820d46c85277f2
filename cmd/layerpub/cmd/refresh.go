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
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sealerio/layerpub/cmd/layerpub/cmd/types"
	"github.com/sealerio/layerpub/cmd/layerpub/cmd/utils"
	"github.com/sealerio/layerpub/pkg/consumer"
	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra"
)

var longRefreshCmdDescription = `refresh points every listed function at the given layer version. The
layers of each function are replaced by exactly this one layer. Functions are
updated concurrently, one failure fails the command and nothing is rolled back.`

var exampleRefreshCmd = `
  layerpub refresh --layer-arn arn:aws:lambda:us-east-1:123456789012:layer:libs:4 \
    --functions '["fn-1","fn-2"]'
`

func NewRefreshCmd() *cobra.Command {
	refreshCmd := &cobra.Command{
		Use:     "refresh",
		Short:   "point Lambda functions at a layer version",
		Long:    longRefreshCmdDescription,
		Example: exampleRefreshCmd,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := &types.RefreshFlags{
				LayerArn:  viper.GetString(types.KeyLayerArn),
				Functions: viper.GetString(types.KeyFunctions),
				Output:    viper.GetString(types.KeyOutput),
			}
			if err := utils.ValidateLayerArn(flags.LayerArn); err != nil {
				return err
			}
			if err := utils.ValidateOutputFormat(flags.Output); err != nil {
				return err
			}
			functions, err := utils.ParseJSONList(types.KeyFunctions, flags.Functions)
			if err != nil {
				return err
			}
			if len(functions) == 0 {
				return errdefs.Configuration("%s is required", types.KeyFunctions)
			}

			factory, err := infra.NewClientFactory(utils.GetCredentials(viper.GetViper()))
			if err != nil {
				return err
			}

			results, err := consumer.NewRefresher(factory.Lambda()).Refresh(contextOf(cmd), functions, flags.LayerArn)
			if err != nil {
				return err
			}

			logrus.Infof("%d functions now use %s", len(results), flags.LayerArn)
			if flags.Output != "" {
				return utils.PrintToStd(os.Stdout, results, flags.Output)
			}
			utils.PrintRefreshTable(os.Stdout, results)
			return nil
		},
	}

	refreshCmd.Flags().String(types.KeyLayerArn, "", "layer version ARN to attach")
	refreshCmd.Flags().String(types.KeyFunctions, "", "function names or ARNs as a JSON array")
	refreshCmd.Flags().StringP(types.KeyOutput, "o", "", "print the refreshed functions, `yaml` or `json`")

	return refreshCmd
}
