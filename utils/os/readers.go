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

	"github.com/pkg/errors"
)

type fileReader struct {
	fileName string
}

func (r fileReader) ReadAll() ([]byte, error) {
	if _, err := os.Stat(r.fileName); err != nil {
		return nil, errors.Wrap(err, "no such file")
	}

	content, err := os.ReadFile(filepath.Clean(r.fileName))
	if err != nil {
		return nil, err
	}

	return content, nil
}

func NewFileReader(fileName string) FileReader {
	return fileReader{
		fileName: fileName,
	}
}
