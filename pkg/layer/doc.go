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

// Package layer publishes Lambda layer versions, either with the archive
// bytes embedded in the request or referencing a staged S3 object.
//
// A publish only succeeds when the raw response status is one of
// common.NonErrorResponseCodes. The SDK accepts any 2xx; a 202 carrying a
// well formed body is still reported as a PublishError with the serialized
// response attached for diagnostics. Nothing is retried.
package layer
