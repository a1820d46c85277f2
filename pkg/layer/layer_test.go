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

package layer

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra/infratest"
	"github.com/sealerio/layerpub/pkg/staging"
)

const (
	testLayerArn        = "arn:aws:lambda:us-east-1:123456789012:layer:libs"
	testLayerVersionArn = testLayerArn + ":3"
)

type publishRequest struct {
	path string
	body struct {
		Description             string
		CompatibleArchitectures []string
		CompatibleRuntimes      []string
		Content                 struct {
			S3Bucket string
			S3Key    string
			ZipFile  string
		}
	}
}

func newTestPublisher(t *testing.T, status int) (Publisher, *[]publishRequest) {
	return newTestPublisherWithBody(t, status, map[string]interface{}{
		"LayerArn":        testLayerArn,
		"LayerVersionArn": testLayerVersionArn,
		"Version":         3,
	})
}

func newTestPublisherWithBody(t *testing.T, status int, body map[string]interface{}) (Publisher, *[]publishRequest) {
	var requests []publishRequest
	srv := infratest.NewServer(t, func(w http.ResponseWriter, r *http.Request) {
		req := publishRequest{path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&req.body)
		requests = append(requests, req)
		if status >= http.StatusBadRequest {
			infratest.WriteLambdaError(w, status, "InvalidParameterValueException", "bad runtime")
			return
		}
		infratest.WriteJSON(w, status, body)
	})
	return NewPublisher(infratest.NewFactory(t, srv.URL).Lambda()), &requests
}

func writeArchive(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "libs.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04layer"), 0600))
	return path
}

func TestPublisher_PublishInline(t *testing.T) {
	p, requests := newTestPublisher(t, http.StatusCreated)

	result, err := p.Publish(context.Background(), Spec{
		Name:          "libs",
		Architectures: []string{"x86_64", "arm64"},
		Runtimes:      []string{"nodejs18.x"},
		ArchivePath:   writeArchive(t),
	})
	require.NoError(t, err)
	assert.Equal(t, &PublishResult{LayerArn: testLayerArn, LayerVersionArn: testLayerVersionArn, Version: 3}, result)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/2018-10-31/layers/libs/versions", req.path)
	assert.Equal(t, []string{"x86_64", "arm64"}, req.body.CompatibleArchitectures)
	assert.Equal(t, []string{"nodejs18.x"}, req.body.CompatibleRuntimes)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("PK\x03\x04layer")), req.body.Content.ZipFile)
	assert.Empty(t, req.body.Content.S3Bucket)
}

func TestPublisher_PublishStaged(t *testing.T) {
	p, requests := newTestPublisher(t, http.StatusOK)

	_, err := p.Publish(context.Background(), Spec{
		Name:   "libs",
		Staged: &staging.StagedObject{Bucket: "my-bucket", Key: staging.ObjectKey("libs")},
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "my-bucket", req.body.Content.S3Bucket)
	assert.Equal(t, "libs.zip", req.body.Content.S3Key)
	assert.Empty(t, req.body.Content.ZipFile)
}

func TestPublisher_PublishFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       map[string]interface{}
		wantDetail string
	}{
		{
			// the SDK is happy with any 2xx, only 200/201/204 count
			"accepted with a well formed body",
			http.StatusAccepted,
			nil,
			testLayerVersionArn,
		},
		{
			"partial content",
			http.StatusPartialContent,
			nil,
			testLayerVersionArn,
		},
		{
			"service error",
			http.StatusBadRequest,
			nil,
			"bad runtime",
		},
		{
			"created without a version arn",
			http.StatusCreated,
			map[string]interface{}{},
			`"Version":0`,
		},
		{
			"ok with only the layer arn",
			http.StatusOK,
			map[string]interface{}{"LayerArn": testLayerArn, "Version": 3},
			testLayerArn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPublisher(t, tt.status)
			if tt.body != nil {
				p, _ = newTestPublisherWithBody(t, tt.status, tt.body)
			}
			result, err := p.Publish(context.Background(), Spec{Name: "libs", ArchivePath: writeArchive(t)})
			assert.Nil(t, result)
			assert.True(t, errdefs.IsPublish(err), "got %v", err)
			assert.Contains(t, errdefs.DetailOf(err), tt.wantDetail)
		})
	}
}

func TestPublisher_InvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want func(error) bool
	}{
		{"no name", Spec{ArchivePath: "/tmp/libs.zip"}, errdefs.IsConfiguration},
		{"no content", Spec{Name: "libs"}, errdefs.IsConfiguration},
		{"staged without bucket", Spec{Name: "libs", Staged: &staging.StagedObject{Key: "libs.zip"}}, errdefs.IsConfiguration},
		{"missing archive", Spec{Name: "libs", ArchivePath: "/nonexistent/libs.zip"}, errdefs.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, requests := newTestPublisher(t, http.StatusCreated)
			_, err := p.Publish(context.Background(), tt.spec)
			assert.True(t, tt.want(err), "got %v", err)
			assert.Empty(t, *requests)
		})
	}
}

func TestPublisher_VerifiesCodeSha256(t *testing.T) {
	archive := writeArchive(t)
	sum := sha256.Sum256([]byte("PK\x03\x04layer"))
	local := base64.StdEncoding.EncodeToString(sum[:])

	tests := []struct {
		name    string
		remote  string
		wantErr bool
	}{
		{"matching", local, false},
		{"not reported", "", false},
		{"mismatch", base64.StdEncoding.EncodeToString([]byte("other")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := infratest.NewServer(t, func(w http.ResponseWriter, r *http.Request) {
				infratest.WriteJSON(w, http.StatusCreated, map[string]interface{}{
					"LayerArn":        testLayerArn,
					"LayerVersionArn": testLayerVersionArn,
					"Version":         3,
					"Content":         map[string]interface{}{"CodeSha256": tt.remote, "CodeSize": 9},
				})
			})
			p := NewPublisher(infratest.NewFactory(t, srv.URL).Lambda())

			result, err := p.Publish(context.Background(), Spec{Name: "libs", ArchivePath: archive})
			if tt.wantErr {
				assert.True(t, errdefs.IsPublish(err), "got %v", err)
				assert.Contains(t, err.Error(), "code sha256 mismatch")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.remote, result.CodeSha256)
		})
	}
}
