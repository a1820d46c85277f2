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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sealerio/layerpub/cmd/layerpub/cmd/types"
	"github.com/sealerio/layerpub/cmd/layerpub/cmd/utils"
	"github.com/sealerio/layerpub/pkg/consumer"
	"github.com/sealerio/layerpub/pkg/infra"
)

var longConsumersCmdDescription = `consumers lists the functions that use any version of the given layer.
A listing failure is logged and reported as an empty list.`

func NewConsumersCmd() *cobra.Command {
	consumersCmd := &cobra.Command{
		Use:     "consumers",
		Short:   "list the Lambda functions using a layer",
		Long:    longConsumersCmdDescription,
		Example: `layerpub consumers --layer-arn arn:aws:lambda:us-east-1:123456789012:layer:libs:3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := &types.ConsumersFlags{
				LayerArn: viper.GetString(types.KeyLayerArn),
				Output:   viper.GetString(types.KeyOutput),
			}
			if err := utils.ValidateLayerArn(flags.LayerArn); err != nil {
				return err
			}
			if err := utils.ValidateOutputFormat(flags.Output); err != nil {
				return err
			}

			factory, err := infra.NewClientFactory(utils.GetCredentials(viper.GetViper()))
			if err != nil {
				return err
			}

			names := consumer.NewLister(factory.Lambda()).List(contextOf(cmd), flags.LayerArn)
			logrus.Debugf("found %d consumers of %s", len(names), consumer.TrimLayerVersion(flags.LayerArn))
			if flags.Output != "" {
				return utils.PrintToStd(os.Stdout, names, flags.Output)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	consumersCmd.Flags().String(types.KeyLayerArn, "", "layer version ARN, any version of the layer matches")
	consumersCmd.Flags().StringP(types.KeyOutput, "o", "", "print the names as `yaml` or `json`")

	return consumersCmd
}
