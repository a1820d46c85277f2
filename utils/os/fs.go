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

	"github.com/pkg/errors"
)

type filesystem struct{}

func IsFileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil || os.IsExist(err)
}

func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

func (f filesystem) IsFileExist(fileName string) bool {
	return IsFileExist(fileName)
}

// GetFileSize returns the size of a regular file. Directories are rejected
// rather than summed, an archive is always a single file.
func (f filesystem) GetFileSize(fileName string) (int64, error) {
	info, err := os.Stat(fileName)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, errors.Errorf("%s is a directory", fileName)
	}
	return info.Size(), nil
}

func NewFilesystem() Interface {
	return filesystem{}
}
