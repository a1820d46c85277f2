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
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sealerio/layerpub/cmd/layerpub/cmd/types"
	"github.com/sealerio/layerpub/cmd/layerpub/cmd/utils"
	"github.com/sealerio/layerpub/pkg/infra"
	"github.com/sealerio/layerpub/pkg/publisher"
	"github.com/sealerio/layerpub/pkg/staging"
)

var longPublishCmdDescription = `publish uploads the archive as a new version of the layer. Archives larger
than 10,000,000 bytes are staged through --s3-bucket first and the staged
object is deleted once the version exists. When --functions is set every
listed function is pointed at the new version, replacing all of its layers.`

var examplePublishCmd = `
publish a small layer inline:

  layerpub publish --region us-east-1 --layer-name libs --archive ./libs.zip \
    --runtimes '["python3.12"]' --architectures '["x86_64"]'

stage a large layer and refresh two functions:

  layerpub publish --layer-name libs --archive ./libs.zip --s3-bucket my-bucket \
    --functions '["fn-1","fn-2"]'
`

func NewPublishCmd() *cobra.Command {
	publishCmd := &cobra.Command{
		Use:     "publish",
		Short:   "publish a new version of a Lambda layer",
		Long:    longPublishCmdDescription,
		Example: examplePublishCmd,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := loadPublishFlags(viper.GetViper())
			if err := utils.ValidatePublishFlags(flags); err != nil {
				return err
			}
			opts, err := buildPublishOptions(flags)
			if err != nil {
				return err
			}

			factory, err := infra.NewClientFactory(utils.GetCredentials(viper.GetViper()))
			if err != nil {
				return err
			}

			o := publisher.NewWithClientFactory(factory, staging.Options{ShowProgress: flags.Progress})
			result, err := o.Run(contextOf(cmd), opts)
			if err != nil {
				return err
			}

			logrus.Infof("published %s", result.Layer.LayerVersionArn)
			if err := utils.WriteGitHubOutput(result.Layer); err != nil {
				return err
			}
			if flags.Output != "" {
				return utils.PrintToStd(os.Stdout, result, flags.Output)
			}
			utils.PrintPublishTable(os.Stdout, result)
			return nil
		},
	}

	publishCmd.Flags().String(types.KeyLayerName, "", "name of the layer, also the staging object key")
	publishCmd.Flags().String(types.KeyArchive, "", "path of the zip archive to publish")
	publishCmd.Flags().String(types.KeyDescription, "", "description of the layer version")
	publishCmd.Flags().String(types.KeyRuntimes, "", "compatible runtimes as a JSON array")
	publishCmd.Flags().String(types.KeyArchitectures, "", "compatible architectures as a JSON array")
	publishCmd.Flags().String(types.KeyS3Bucket, "", "bucket used to stage archives too large to publish inline")
	publishCmd.Flags().String(types.KeyFunctions, "", "functions to point at the new version as a JSON array")
	publishCmd.Flags().Bool(types.KeyProgress, false, "show the staging upload progress")
	publishCmd.Flags().StringP(types.KeyOutput, "o", "", "print the publish result, `yaml` or `json`")

	return publishCmd
}

func loadPublishFlags(v *viper.Viper) *types.PublishFlags {
	return &types.PublishFlags{
		LayerName:     v.GetString(types.KeyLayerName),
		Archive:       v.GetString(types.KeyArchive),
		Description:   v.GetString(types.KeyDescription),
		S3Bucket:      v.GetString(types.KeyS3Bucket),
		Runtimes:      v.GetString(types.KeyRuntimes),
		Architectures: v.GetString(types.KeyArchitectures),
		Functions:     v.GetString(types.KeyFunctions),
		Progress:      v.GetBool(types.KeyProgress),
		Output:        v.GetString(types.KeyOutput),
	}
}

func buildPublishOptions(flags *types.PublishFlags) (publisher.Options, error) {
	runtimes, err := utils.ParseJSONList(types.KeyRuntimes, flags.Runtimes)
	if err != nil {
		return publisher.Options{}, err
	}
	architectures, err := utils.ParseJSONList(types.KeyArchitectures, flags.Architectures)
	if err != nil {
		return publisher.Options{}, err
	}
	functions, err := utils.ParseJSONList(types.KeyFunctions, flags.Functions)
	if err != nil {
		return publisher.Options{}, err
	}

	return publisher.Options{
		LayerName:     flags.LayerName,
		Description:   flags.Description,
		ArchivePath:   flags.Archive,
		Architectures: architectures,
		Runtimes:      runtimes,
		Bucket:        flags.S3Bucket,
		Functions:     functions,
	}, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
