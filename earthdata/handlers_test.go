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

package earthdata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venicegeo/geojson-go/geojson"
)

func discoverRouter() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/discover/{shortName}", NewDiscoverHandler())
	return router
}

func TestDiscoverHandler(t *testing.T) {
	// Mock
	request := httptest.NewRequest("GET", "/discover/PACE_OCI_L2_SFREFL?bbox=-80,30,-60,50&cloudCover=40", nil)
	response := httptest.NewRecorder()

	// Tested code
	discoverRouter().ServeHTTP(response, request)

	// Asserts
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
	parsed, err := geojson.Parse(response.Body.Bytes())
	require.Nil(t, err)
	fc, ok := parsed.(*geojson.FeatureCollection)
	require.True(t, ok)
	assert.Len(t, fc.Features, 2)
	query := mockCMR.last().URL.Query()
	assert.Equal(t, "PACE_OCI_L2_SFREFL", query.Get("short_name"))
	assert.Equal(t, "0,40", query.Get("cloud_cover"))
}

func TestDiscoverHandler_BadInput(t *testing.T) {
	for _, target := range []string{
		"/discover/PACE_OCI_L2_SFREFL?bbox=north",
		"/discover/PACE_OCI_L2_SFREFL?cloudCover=cloudy",
		"/discover/PACE_OCI_L2_SFREFL?maxResults=-1",
	} {
		response := httptest.NewRecorder()
		discoverRouter().ServeHTTP(response, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, http.StatusBadRequest, response.Code, target)
	}
}

func TestDiscoverHandler_UpstreamFailure(t *testing.T) {
	response := httptest.NewRecorder()
	discoverRouter().ServeHTTP(response, httptest.NewRequest("GET", "/discover/BROKEN", nil))
	assert.Equal(t, http.StatusInternalServerError, response.Code)
}
