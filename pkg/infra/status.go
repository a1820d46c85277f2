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

package infra

import (
	"encoding/json"
	"fmt"

	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/sealerio/layerpub/common"
)

// StatusCode returns the HTTP status of the raw response recorded in the
// result metadata of an SDK call, or 0 if none was recorded.
func StatusCode(metadata middleware.Metadata) int {
	resp, ok := awsmiddleware.GetRawResponse(metadata).(*smithyhttp.Response)
	if !ok || resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func IsSuccessStatus(code int) bool {
	for _, c := range common.NonErrorResponseCodes {
		if c == code {
			return true
		}
	}
	return false
}

// CheckResponse fails unless the call returned one of the accepted status
// codes. The SDK treats every 2xx as success, which is not enough here.
func CheckResponse(metadata middleware.Metadata) error {
	code := StatusCode(metadata)
	if !IsSuccessStatus(code) {
		return fmt.Errorf("unexpected response status code %d, accepted codes are %v", code, common.NonErrorResponseCodes)
	}
	return nil
}

// Serialize renders an SDK response for diagnostics.
func Serialize(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
