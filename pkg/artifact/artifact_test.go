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

package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealerio/layerpub/pkg/errdefs"
)

// newSizedFile creates a sparse file of the given size.
func newSizedFile(t *testing.T, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layer.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

func TestInspector_Size(t *testing.T) {
	tests := []struct {
		name string
		size int64
	}{
		{"empty archive", 0},
		{"small archive", 5000000},
		{"at threshold", 10000000},
		{"above threshold", 15000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInspector().Size(newSizedFile(t, tt.size))
			assert.NoError(t, err)
			assert.Equal(t, tt.size, got)
		})
	}
}

func TestInspector_SizeNotFound(t *testing.T) {
	_, err := NewInspector().Size(filepath.Join(t.TempDir(), "missing.zip"))
	assert.True(t, errdefs.IsNotFound(err))

	_, err = NewInspector().Size(t.TempDir())
	assert.True(t, errdefs.IsNotFound(err))
}

func TestReadAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04"), 0600))

	data, err := Read(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), data)

	f, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, f.Close())

	_, err = Read(path + ".missing")
	assert.True(t, errdefs.IsNotFound(err))
	_, err = Open(path + ".missing")
	assert.True(t, errdefs.IsNotFound(err))
}

func TestReadAndOpenRejectDirectories(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(dir)
	assert.True(t, errdefs.IsNotFound(err), "got %v", err)
	assert.Contains(t, err.Error(), "is a directory")

	_, err = Open(dir)
	assert.True(t, errdefs.IsNotFound(err), "got %v", err)
}
