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

	"github.com/sealerio/layerpub/cmd/layerpub/boot"
	"github.com/sealerio/layerpub/cmd/layerpub/cmd/types"
	"github.com/sealerio/layerpub/cmd/layerpub/cmd/utils"
	"github.com/sealerio/layerpub/common"
	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/logger"
	"github.com/sealerio/layerpub/pkg/version"
	osi "github.com/sealerio/layerpub/utils/os"
)

type rootOpts struct {
	cfgFile              string
	debugModeOn          bool
	hideLogTime          bool
	hideLogPath          bool
	logToFile            bool
	colorMode            string
	remoteLoggerURL      string
	remoteLoggerTaskName string
}

var rootOpt rootOpts

const (
	colorModeNever  = "never"
	colorModeAlways = "always"
)

var longRootCmdDescription = `layerpub publishes a versioned AWS Lambda layer from a local zip archive,
staging it through S3 when it is too large to upload inline, and optionally
points a set of Lambda functions at the new layer version.
`

var supportedColorModes = []string{
	colorModeNever,
	colorModeAlways,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           common.ExecBinaryFileName,
	Short:         "A tool to publish AWS Lambda layers and refresh their consumers.",
	Long:          longRootCmdDescription,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// bind the flags of the command being executed, later commands would
		// otherwise steal shared keys such as --functions
		return utils.BindFlags(viper.GetViper(), cmd.Flags())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError logs a fatal error, with the remote response behind it when
// one was recorded.
func reportError(err error) {
	if detail := errdefs.DetailOf(err); detail != "" {
		logrus.Debugf("%s: %s", errdefs.KindOf(err), detail)
	}
	logrus.Errorf("%s-%s: %v", common.ExecBinaryFileName, version.GetSingleVersion(), err)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(NewPublishCmd(), NewConsumersCmd(), NewRefreshCmd(), NewVersionCmd())

	rootCmd.PersistentFlags().StringVar(&rootOpt.cfgFile, "config", "", fmt.Sprintf("config file of layerpub (default is $HOME/%s)", common.DefaultConfigFileName))
	rootCmd.PersistentFlags().BoolVarP(&rootOpt.debugModeOn, "debug", "d", false, "turn on debug mode")
	rootCmd.PersistentFlags().BoolVarP(&rootCmd.SilenceUsage, "quiet", "q", false, "silence the usage when fail")
	rootCmd.PersistentFlags().BoolVar(&rootOpt.hideLogTime, "hide-time", false, "hide the log time")
	rootCmd.PersistentFlags().BoolVar(&rootOpt.hideLogPath, "hide-path", false, "hide the log path")
	rootCmd.PersistentFlags().BoolVar(&rootOpt.logToFile, "log-to-file", false, "write log message to disk")
	rootCmd.PersistentFlags().StringVar(&rootOpt.colorMode, "color", colorModeAlways, fmt.Sprintf("set the log color mode, the possible values can be %v", supportedColorModes))
	rootCmd.PersistentFlags().StringVar(&rootOpt.remoteLoggerURL, "remote-logger-url", "", "remote logger url, if not empty, will send log to this url")
	rootCmd.PersistentFlags().StringVar(&rootOpt.remoteLoggerTaskName, "task-name", "", "task name which will embedded in the remote logger header, only valid when --remote-logger-url is set")

	rootCmd.PersistentFlags().String(types.KeyRegion, "", "AWS region, falls back to AWS_REGION")
	rootCmd.PersistentFlags().String(types.KeyAccessKeyID, "", "AWS access key id, falls back to AWS_ACCESS_KEY_ID")
	rootCmd.PersistentFlags().String(types.KeySecretAccessKey, "", "AWS secret access key, falls back to AWS_SECRET_ACCESS_KEY")
	rootCmd.PersistentFlags().String(types.KeySessionToken, "", "AWS session token for temporary credentials")
	rootCmd.PersistentFlags().String(types.KeyEndpointURL, "", "override the Lambda and S3 endpoint, e.g. a LocalStack url")
	rootCmd.DisableAutoGenTag = true
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	cfgFile := rootOpt.cfgFile
	if cfgFile == "" && osi.IsFileExist(common.DefaultConfigFile()) {
		cfgFile = common.DefaultConfigFile()
	}

	if err := boot.OnBoot(rootOpt.logToFile, ""); err != nil {
		panic(fmt.Sprintf("failed to boot: %v\n", err))
	}

	if err := logger.Init(logger.LogOptions{
		LogToFile:            rootOpt.logToFile,
		Verbose:              rootOpt.debugModeOn,
		HideLogTime:          rootOpt.hideLogTime,
		HideLogPath:          rootOpt.hideLogPath,
		RemoteLoggerURL:      rootOpt.remoteLoggerURL,
		RemoteLoggerTaskName: rootOpt.remoteLoggerTaskName,
		DisableColor:         rootOpt.colorMode == colorModeNever,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v\n", err))
	}

	if err := utils.InitViper(viper.GetViper(), cfgFile); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
