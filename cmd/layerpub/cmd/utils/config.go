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
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/sealerio/layerpub/cmd/layerpub/cmd/types"
	"github.com/sealerio/layerpub/common"
	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra"
	strUtils "github.com/sealerio/layerpub/utils/strings"
)

// credentialEnvs are read after INPUT_<KEY>, so a job can rely on the
// standard AWS variables instead of action inputs.
var credentialEnvs = map[string][]string{
	types.KeyRegion:          {"INPUT_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"},
	types.KeyAccessKeyID:     {"INPUT_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
	types.KeySecretAccessKey: {"INPUT_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
	types.KeySessionToken:    {"INPUT_SESSION_TOKEN", "AWS_SESSION_TOKEN"},
	types.KeyEndpointURL:     {"INPUT_ENDPOINT_URL", "AWS_ENDPOINT_URL"},
}

// InitViper makes every key readable from the environment and cfgFile.
func InitViper(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(common.InputEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, envs := range credentialEnvs {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return errdefs.Configuration("failed to read config file %s: %v", cfgFile, err)
	}
	return nil
}

// BindFlags binds the flags of the command being executed, so a flag set on
// the command line wins over env and config values.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	return v.BindPFlags(flags)
}

func GetCredentials(v *viper.Viper) infra.Credentials {
	return infra.Credentials{
		Region:          v.GetString(types.KeyRegion),
		AccessKeyID:     v.GetString(types.KeyAccessKeyID),
		SecretAccessKey: v.GetString(types.KeySecretAccessKey),
		SessionToken:    v.GetString(types.KeySessionToken),
		Endpoint:        v.GetString(types.KeyEndpointURL),
	}
}

// ParseJSONList parses a JSON array of strings such as '["a","b"]'. An empty
// input yields an empty list.
func ParseJSONList(name, raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var list []string
	if err := yaml.Unmarshal([]byte(raw), &list); err != nil {
		return nil, errdefs.Configuration("%s must be a JSON array of strings, got %q: %v", name, raw, err)
	}
	return strUtils.RemoveEmpty(list), nil
}

func ValidateOutputFormat(output string) error {
	if output == "" || strUtils.IsInSlice(output, []string{common.OutputFormatYAML, common.OutputFormatJSON}) {
		return nil
	}
	return errdefs.Configuration("output format must be %s or %s", common.OutputFormatYAML, common.OutputFormatJSON)
}

func ValidatePublishFlags(flags *types.PublishFlags) error {
	if flags.LayerName == "" {
		return errdefs.Configuration("%s is required", types.KeyLayerName)
	}
	if flags.Archive == "" {
		return errdefs.Configuration("%s is required", types.KeyArchive)
	}
	return ValidateOutputFormat(flags.Output)
}

func ValidateLayerArn(layerArn string) error {
	if layerArn == "" {
		return errdefs.Configuration("%s is required", types.KeyLayerArn)
	}
	if !strings.HasPrefix(layerArn, "arn:") || !strings.Contains(layerArn, ":layer:") {
		return errdefs.Configuration("%s %q is not a layer ARN", types.KeyLayerArn, layerArn)
	}
	return nil
}
