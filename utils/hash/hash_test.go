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

package hash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256_CheckSum(t *testing.T) {
	dig, err := SHA256{}.CheckSum(strings.NewReader("test data"))
	require.NoError(t, err)
	assert.Equal(t, digest.FromString("test data"), *dig)
}

func TestCodeSha256(t *testing.T) {
	tests := []struct {
		name    string
		dig     digest.Digest
		want    string
		wantErr bool
	}{
		{
			name: "empty input",
			dig:  digest.FromString(""),
			want: "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=",
		},
		{
			name:    "sha512",
			dig:     digest.SHA512.FromString(""),
			wantErr: true,
		},
		{
			name:    "malformed",
			dig:     digest.Digest("sha256:zz"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CodeSha256(tt.dig)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileCodeSha256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	got, err := FileCodeSha256(path)
	require.NoError(t, err)
	assert.Equal(t, "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=", got)

	_, err = FileCodeSha256(filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
}
