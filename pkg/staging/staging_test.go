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

package staging

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra/infratest"
)

const accessDenied = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied</Message><RequestId>4442587FB7D0A2F9</RequestId></Error>`

type recordedRequest struct {
	method string
	path   string
	body   []byte
}

type fakeS3 struct {
	sync.Mutex
	requests []recordedRequest
	status   map[string]int
}

func (f *fakeS3) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.Lock()
	f.requests = append(f.requests, recordedRequest{method: r.Method, path: r.URL.Path, body: body})
	status, ok := f.status[r.Method]
	f.Unlock()
	if !ok {
		status = http.StatusOK
		if r.Method == http.MethodDelete {
			status = http.StatusNoContent
		}
	}
	if status == http.StatusForbidden {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(accessDenied))
		return
	}
	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(status)
}

func newTestStore(t *testing.T, status map[string]int) (Store, *fakeS3) {
	fake := &fakeS3{status: status}
	srv := infratest.NewServer(t, fake.handle)
	return NewStore(infratest.NewFactory(t, srv.URL).S3(), Options{}), fake
}

func writeArchive(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "libs.zip")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "libs.zip", ObjectKey("libs"))
	assert.Equal(t, "s3://my-bucket/libs.zip", StagedObject{Bucket: "my-bucket", Key: ObjectKey("libs")}.String())
}

func TestStore_Upload(t *testing.T) {
	s, fake := newTestStore(t, nil)
	path := writeArchive(t, "layer-bytes")

	err := s.Upload(context.Background(), path, "my-bucket", "libs.zip")
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodPut, fake.requests[0].method)
	assert.Equal(t, "/my-bucket/libs.zip", fake.requests[0].path)
	assert.Equal(t, "layer-bytes", string(fake.requests[0].body))
}

func TestStore_UploadWithProgress(t *testing.T) {
	fake := &fakeS3{}
	srv := infratest.NewServer(t, fake.handle)
	s := NewStore(infratest.NewFactory(t, srv.URL).S3(), Options{ShowProgress: true})

	require.NoError(t, s.Upload(context.Background(), writeArchive(t, "layer-bytes"), "my-bucket", "libs.zip"))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "layer-bytes", string(fake.requests[0].body))
}

func TestStore_UploadFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"service error", http.StatusForbidden},
		// 202 is a 2xx the SDK accepts, it is still not an accepted status
		{"accepted is not success", http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t, map[string]int{http.MethodPut: tt.status})
			err := s.Upload(context.Background(), writeArchive(t, "x"), "my-bucket", "libs.zip")
			assert.True(t, errdefs.IsUpload(err), "got %v", err)
		})
	}
}

func TestStore_UploadMissingArchive(t *testing.T) {
	s, fake := newTestStore(t, nil)
	err := s.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.zip"), "my-bucket", "libs.zip")
	assert.True(t, errdefs.IsNotFound(err))
	assert.Empty(t, fake.requests)
}

func TestStore_Delete(t *testing.T) {
	s, fake := newTestStore(t, nil)
	require.NoError(t, s.Delete(context.Background(), "my-bucket", "libs.zip"))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodDelete, fake.requests[0].method)
	assert.Equal(t, "/my-bucket/libs.zip", fake.requests[0].path)
}

func TestStore_DeleteFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"service error", http.StatusForbidden},
		{"accepted is not success", http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t, map[string]int{http.MethodDelete: tt.status})
			err := s.Delete(context.Background(), "my-bucket", "libs.zip")
			assert.True(t, errdefs.IsCleanup(err), "got %v", err)
			assert.False(t, errdefs.IsFatal(err))
		})
	}
}
