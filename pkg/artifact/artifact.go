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

// Package artifact inspects the local layer archive.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	osi "github.com/sealerio/layerpub/utils/os"

	"github.com/sealerio/layerpub/pkg/errdefs"
)

type Inspector interface {
	// Size returns the byte size of the archive at path.
	Size(path string) (int64, error)
}

type inspector struct {
	fs osi.Interface
}

func NewInspector() Inspector {
	return inspector{fs: osi.NewFilesystem()}
}

func (i inspector) Size(path string) (int64, error) {
	if !i.fs.IsFileExist(path) {
		return 0, errdefs.NotFound(path, os.ErrNotExist)
	}
	size, err := i.fs.GetFileSize(path)
	if err != nil {
		return 0, errdefs.NotFound(path, err)
	}
	return size, nil
}

// Read returns the whole archive, used when the layer is published inline.
func Read(path string) ([]byte, error) {
	if !osi.IsFileExist(path) {
		return nil, errdefs.NotFound(path, os.ErrNotExist)
	}
	if osi.IsDir(path) {
		return nil, errdefs.NotFound(path, errors.Errorf("%s is a directory", path))
	}
	return osi.NewFileReader(path).ReadAll()
}

// Open returns the archive for streaming. The caller closes it.
func Open(path string) (*os.File, error) {
	if osi.IsDir(path) {
		return nil, errdefs.NotFound(path, errors.Errorf("%s is a directory", path))
	}
	f, err := os.Open(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil, errdefs.NotFound(path, err)
	}
	return f, err
}
