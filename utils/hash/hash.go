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
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
)

type SHA256 struct {
}

func (sha SHA256) CheckSum(reader io.Reader) (*digest.Digest, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return nil, err
	}
	dig := digest.NewDigestFromEncoded(digest.SHA256, hex.EncodeToString(hash.Sum(nil)))
	return &dig, nil
}

func (sha SHA256) FileCheckSum(path string) (*digest.Digest, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logrus.Warnf("failed to close %s: %v", path, err)
		}
	}()
	return sha.CheckSum(file)
}

// CodeSha256 renders a sha256 digest the way Lambda reports package hashes:
// base64 of the raw sum.
func CodeSha256(dig digest.Digest) (string, error) {
	if err := dig.Validate(); err != nil {
		return "", err
	}
	if dig.Algorithm() != digest.SHA256 {
		return "", fmt.Errorf("unsupported digest algorithm %s", dig.Algorithm())
	}
	raw, err := hex.DecodeString(dig.Encoded())
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// FileCodeSha256 returns the Lambda style hash of the file at path.
func FileCodeSha256(path string) (string, error) {
	dig, err := SHA256{}.FileCheckSum(path)
	if err != nil {
		return "", err
	}
	return CodeSha256(*dig)
}
