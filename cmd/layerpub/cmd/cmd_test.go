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
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealerio/layerpub/cmd/layerpub/cmd/types"
	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/publisher"
)

func TestBuildPublishOptions(t *testing.T) {
	v := viper.New()
	v.Set(types.KeyLayerName, "libs")
	v.Set(types.KeyArchive, "dist/libs.zip")
	v.Set(types.KeyDescription, "shared libs")
	v.Set(types.KeyS3Bucket, "my-bucket")
	v.Set(types.KeyRuntimes, `["python3.12","python3.11"]`)
	v.Set(types.KeyArchitectures, `["arm64"]`)
	v.Set(types.KeyFunctions, `["fn-1","fn-2","fn-1"]`)

	flags := loadPublishFlags(v)
	opts, err := buildPublishOptions(flags)
	require.NoError(t, err)
	assert.Equal(t, publisher.Options{
		LayerName:     "libs",
		Description:   "shared libs",
		ArchivePath:   "dist/libs.zip",
		Architectures: []string{"arm64"},
		Runtimes:      []string{"python3.12", "python3.11"},
		Bucket:        "my-bucket",
		// duplicates are removed by the refresher
		Functions: []string{"fn-1", "fn-2", "fn-1"},
	}, opts)
}

func TestBuildPublishOptionsWithoutFunctions(t *testing.T) {
	opts, err := buildPublishOptions(&types.PublishFlags{LayerName: "libs", Archive: "libs.zip"})
	require.NoError(t, err)
	assert.Empty(t, opts.Functions)
	assert.Empty(t, opts.Bucket)
}

func TestBuildPublishOptionsRejectsBadLists(t *testing.T) {
	for _, flags := range []types.PublishFlags{
		{Runtimes: "python3.12"},
		{Architectures: `{"arm64":true}`},
		{Functions: "fn-1,fn-2"},
	} {
		flags := flags
		_, err := buildPublishOptions(&flags)
		assert.True(t, errdefs.IsConfiguration(err), "got %v", err)
	}
}

func TestCommandsAreRegistered(t *testing.T) {
	for _, name := range []string{"publish", "consumers", "refresh", "version"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}

func TestReportErrorLogsResponseDetail(t *testing.T) {
	hook := test.NewGlobal()
	level := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		logrus.SetLevel(level)
		hook.Reset()
	})

	reportError(errdefs.NewWithDetail(errdefs.KindPublish, "publish layer libs", `{"Version":0}`,
		errors.New("response carries no layer version arn")))

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, `{"Version":0}`)
	assert.Equal(t, logrus.ErrorLevel, entries[1].Level)
	assert.Contains(t, entries[1].Message, "layerpub-")
	assert.Contains(t, entries[1].Message, "no layer version arn")

	hook.Reset()
	reportError(errors.New("plain failure"))
	require.Len(t, hook.AllEntries(), 1)
}
