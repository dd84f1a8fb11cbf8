// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"net/http"
	"sync"
	"time"
)

var (
	httpClientMu sync.Mutex
	httpClient   *http.Client
)

// HTTPClient returns the shared client used for outbound catalog and archive requests
func HTTPClient() *http.Client {
	httpClientMu.Lock()
	defer httpClientMu.Unlock()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: GetHTTPTimeout()}
	}
	return httpClient
}

// SetHTTPClient replaces the shared client
func SetHTTPClient(client *http.Client) {
	httpClientMu.Lock()
	defer httpClientMu.Unlock()
	httpClient = client
}

// defaultHTTPTimeout covers full granule downloads, which run to hundreds of megabytes
const defaultHTTPTimeout = 10 * time.Minute
