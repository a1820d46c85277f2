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

// Package infratest points real SDK clients at local HTTP servers so the
// request and status handling of the components is exercised end to end.
package infratest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sealerio/layerpub/pkg/infra"
)

const (
	Region          = "us-east-1"
	AccessKeyID     = "AKIDEXAMPLE"
	SecretAccessKey = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
)

// NewFactory returns a client factory whose Lambda and S3 clients talk to
// endpoint.
func NewFactory(t *testing.T, endpoint string) *infra.ClientFactory {
	t.Helper()
	f, err := infra.NewClientFactory(infra.Credentials{
		Region:          Region,
		AccessKeyID:     AccessKeyID,
		SecretAccessKey: SecretAccessKey,
		Endpoint:        endpoint,
	})
	if err != nil {
		t.Fatalf("failed to build client factory: %v", err)
	}
	return f
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// WriteJSON answers a request with status and v encoded as JSON.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteLambdaError answers with a non-retryable Lambda service error.
func WriteLambdaError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("X-Amzn-Errortype", errorType)
	WriteJSON(w, status, map[string]string{"message": message})
}
