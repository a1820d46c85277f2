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

package os

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sealerio/layerpub/common"
)

type appendWriter struct {
	fileName string
}

func (a appendWriter) WriteFile(content []byte) error {
	dir := filepath.Dir(a.fileName)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, common.FileMode0755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(filepath.Clean(a.fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, common.FileMode0644)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("failed to close %s: %v", a.fileName, err)
		}
	}()

	_, err = f.Write(content)
	return err
}

// NewAppendWriter returns a writer that appends to fileName, creating it if
// needed. Step output files are shared by every step of a job, so they are
// never truncated.
func NewAppendWriter(fileName string) FileWriter {
	return appendWriter{
		fileName: fileName,
	}
}
