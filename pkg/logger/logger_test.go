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

package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "staged archive is left behind",
		Data:    logrus.Fields{"layer": "libs", "bucket": "my-bucket"},
	}

	tests := []struct {
		name      string
		formatter *Formatter
		want      string
	}{
		{
			"plain",
			&Formatter{DisableColor: true},
			"2022-03-04 05:06:07 [WARNING] staged archive is left behind bucket=my-bucket layer=libs\n",
		},
		{
			"without time",
			&Formatter{DisableColor: true, HideLogTime: true},
			"[WARNING] staged archive is left behind bucket=my-bucket layer=libs\n",
		},
		{
			"colored",
			&Formatter{HideLogTime: true},
			"\033[33m[WARNING] staged archive is left behind bucket=my-bucket layer=libs\033[0m\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.formatter.Format(entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestLogger_Print(t *testing.T) {
	require.NoError(t, Init(LogOptions{
		LogToFile:    true,
		OutputPath:   t.TempDir(),
		Verbose:      true,
		DisableColor: false,
	}))

	wg := &sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		logrus.Info("start to test log")
		for j := 0; j < 5; j++ {
			wg.Add(1)
			go func(x int) {
				defer wg.Done()
				logrus.Debugf("i am the true entry %d", x)
			}(j)
		}
		wg.Wait()
	}
}

func TestRemoteLogHook_Fire(t *testing.T) {
	var (
		mu     sync.Mutex
		events []Event
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e Event
		_ = json.NewDecoder(r.Body).Decode(&e)
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))
	defer srv.Close()

	hook, err := NewRemoteLogHook(srv.URL, "publish-libs")
	require.NoError(t, err)

	entry := logrus.NewEntry(logrus.New())
	entry.Level = logrus.ErrorLevel
	entry.Message = "failed to publish"
	require.NoError(t, hook.Fire(entry))

	require.Len(t, events, 1)
	assert.Equal(t, "publish-libs", events[0].TaskName)
	assert.Equal(t, "Error", events[0].Type)
	assert.True(t, strings.Contains(events[0].Message, "failed to publish"))
	assert.NotEmpty(t, events[0].ID)

	_, err = NewRemoteLogHook("not a url", "")
	assert.Error(t, err)
}
