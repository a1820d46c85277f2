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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RemoteLogHook to send logs via remote URL.
type RemoteLogHook struct {
	sync.RWMutex

	TaskName string
	URL      string
	client   *http.Client
}

// Event is the JSON document posted for every log entry.
type Event struct {
	ID       string    `json:"id"`
	TaskName string    `json:"taskName,omitempty"`
	Type     string    `json:"type"`
	Level    string    `json:"level"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

func NewRemoteLogHook(remoteURL, taskName string) (*RemoteLogHook, error) {
	reqURL, err := url.Parse(remoteURL)
	if err != nil {
		return nil, err
	}
	if reqURL.Scheme == "" || reqURL.Host == "" {
		return nil, fmt.Errorf("remote logger url %q must be absolute", remoteURL)
	}

	return &RemoteLogHook{
		TaskName: taskName,
		URL:      reqURL.String(),
		client:   &http.Client{Timeout: 5 * time.Second},
	}, nil
}

func (hook *RemoteLogHook) post(body []byte) error {
	resp, err := hook.client.Post(hook.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("bad %s request to server : %w", http.MethodPost, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from server: [%d] %s ", resp.StatusCode, resp.Status)
	}

	return nil
}

func (hook *RemoteLogHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Unable to read entry, %v", err)
		return err
	}

	t := "Info"
	if entry.Level <= logrus.ErrorLevel {
		t = "Error"
	}

	bytesData, _ := json.Marshal(&Event{
		ID:       uuid.New().String(),
		TaskName: hook.TaskName,
		Type:     t,
		Level:    entry.Level.String(),
		Message:  line,
		Time:     entry.Time,
	})

	hook.Lock()
	defer hook.Unlock()

	return hook.post(bytesData)
}

func (hook *RemoteLogHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}
