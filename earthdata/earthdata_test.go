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
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/util"
	"github.com/venicegeo/geojson-go/geojson"
)

const testToken = "test-token"

const granulePage1 = `{"hits": 2, "items": [{
	"meta": {"concept-id": "G1-OB_CLOUD", "collection-concept-id": "C1-OB_CLOUD"},
	"umm": {
		"GranuleUR": "PACE_OCI.20240501T120000.L2.SFREFL.V2.nc",
		"CloudCover": 12.5,
		"TemporalExtent": {"RangeDateTime": {"BeginningDateTime": "2024-05-01T12:00:00.000Z", "EndingDateTime": "2024-05-01T12:05:00.000Z"}},
		"SpatialExtent": {"HorizontalSpatialDomain": {"Geometry": {"BoundingRectangles": [
			{"WestBoundingCoordinate": -75, "EastBoundingCoordinate": -65, "NorthBoundingCoordinate": 45, "SouthBoundingCoordinate": 35}]}}},
		"RelatedUrls": [
			{"URL": "%s/granules/PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", "Type": "GET DATA"},
			{"URL": "s3://ob-cumulus-prod-public/PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", "Type": "GET DATA"},
			{"URL": "https://example.localdomain/browse.png", "Type": "GET RELATED VISUALIZATION"}]
	}}]}`

const granulePage2 = `{"hits": 2, "items": [{
	"meta": {"concept-id": "G2-OB_CLOUD", "native-id": "granule-2"},
	"umm": {
		"TemporalExtent": {"SingleDateTime": "2024-05-02T12:00:00Z"},
		"SpatialExtent": {"HorizontalSpatialDomain": {"Geometry": {"GPolygons": [{"Boundary": {"Points": [
			{"Longitude": 0, "Latitude": 0}, {"Longitude": 1, "Latitude": 0}, {"Longitude": 1, "Latitude": 1}, {"Longitude": 0, "Latitude": 0}]}}]}}},
		"DataGranule": {"ArchiveAndDistributionInformation": [{"Name": "granule-2", "Format": "netCDF-4"}]}
	}}]}`

const collections = `{"hits": 1, "items": [{"meta": {"concept-id": "C1-OB_CLOUD"},
	"umm": {"ShortName": "PACE_OCI_L2_SFREFL", "Version": "2", "EntryTitle": "PACE OCI Level-2 Surface Reflectance"}}]}`

var granuleBytes = []byte("CDF-granule-bytes")

type mockCMRHandler struct {
	mutex    sync.Mutex
	requests []*http.Request
}

func (h *mockCMRHandler) last() *http.Request {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.requests[len(h.requests)-1]
}

func (h *mockCMRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mutex.Lock()
	h.requests = append(h.requests, r)
	h.mutex.Unlock()
	switch r.URL.Path {
	case "/search/collections.umm_json":
		w.Write([]byte(collections))
	case "/search/granules.umm_json":
		if r.URL.Query().Get("short_name") == "BROKEN" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("short_name") == "GARBAGE" {
			w.Write([]byte("not json"))
			return
		}
		if r.Header.Get(searchAfterHdr) == "" {
			w.Header().Set(searchAfterHdr, `["page-2"]`)
			w.Header().Set(hitsHdr, "2")
			w.Write([]byte(fmt.Sprintf(granulePage1, "http://"+r.Host)))
			return
		}
		w.Header().Set(hitsHdr, "2")
		w.Write([]byte(granulePage2))
	case "/granules/PACE_OCI.20240501T120000.L2.SFREFL.V2.nc":
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			http.Redirect(w, r, "/login?next="+r.URL.Path, http.StatusFound)
			return
		}
		w.Write(granuleBytes)
	case "/login":
		if user, pass, ok := r.BasicAuth(); ok && user == "user" && pass == "pass" {
			http.SetCookie(w, &http.Cookie{Name: "urs", Value: "ok", Path: "/"})
			w.Write(granuleBytes)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

var mockCMR = &mockCMRHandler{}
var mockServer *httptest.Server

func TestMain(m *testing.M) {
	mockServer = httptest.NewServer(mockCMR)
	os.Setenv("CMR_URL", mockServer.URL+"/search/")
	code := m.Run()
	mockServer.Close()
	os.Exit(code)
}

func testContext() *Context {
	return &Context{BaseCMRURL: mockServer.URL + "/search/", Credentials: util.EarthdataCredentials{Token: testToken}}
}

func TestSearchCollections(t *testing.T) {
	results, err := SearchCollections(SearchOptions{ShortName: "PACE_OCI_L2_SFREFL"}, testContext())
	require.Nil(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "C1-OB_CLOUD", results[0].ConceptID)
	assert.Equal(t, "PACE OCI Level-2 Surface Reflectance", results[0].Title)
}

func TestSearchGranules(t *testing.T) {
	// Mock
	bbox, err := geojson.NewBoundingBox("-75,35,-65,45")
	require.Nil(t, err)
	options := SearchOptions{ShortName: "PACE_OCI_L2_SFREFL", Version: "2", StartDate: "2024-05-01T00:00:00Z", EndDate: "2024-05-03T00:00:00Z", Bbox: bbox, CloudCover: 50}

	// Tested code
	results, err := SearchGranules(options, testContext())

	// Asserts
	require.Nil(t, err)
	require.Len(t, results, 2)
	first := results[0]
	assert.Equal(t, "PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", first.ID)
	assert.Equal(t, 12.5, first.CloudCover)
	assert.Equal(t, model.NetCDF4, first.FileFormat)
	assert.Equal(t, 2024, first.StartDate.Year())
	assert.Len(t, first.Links.Data, 1)
	assert.Equal(t, []string{"https://example.localdomain/browse.png"}, first.Links.Browse)
	assert.NotNil(t, first.Geometry)

	second := results[1]
	assert.Equal(t, "granule-2", second.ID)
	assert.Equal(t, -1.0, second.CloudCover)
	assert.Equal(t, model.NetCDF4, second.FileFormat)
	assert.Equal(t, second.StartDate, second.EndDate)

	last := mockCMR.last()
	query := last.URL.Query()
	assert.Equal(t, "-75,35,-65,45", query.Get("bounding_box"))
	assert.Equal(t, "0,50", query.Get("cloud_cover"))
	assert.Equal(t, "2024-05-01T00:00:00Z,2024-05-03T00:00:00Z", query.Get("temporal"))
	assert.Equal(t, `["page-2"]`, last.Header.Get(searchAfterHdr))
}

func TestSearchGranules_MaxResults(t *testing.T) {
	results, err := SearchGranules(SearchOptions{ShortName: "PACE_OCI_L2_SFREFL", MaxResults: 1}, testContext())
	require.Nil(t, err)
	assert.Len(t, results, 1)
}

func TestSearchGranules_Errors(t *testing.T) {
	_, err := SearchGranules(SearchOptions{}, testContext())
	httpErr, ok := err.(util.HTTPErr)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	_, err = SearchGranules(SearchOptions{ShortName: "BROKEN"}, testContext())
	assert.NotNil(t, err)

	_, err = SearchGranules(SearchOptions{ShortName: "GARBAGE"}, testContext())
	assert.NotNil(t, err)
}

func TestSearchGranulesFeatureCollection(t *testing.T) {
	fc, err := SearchGranulesFeatureCollection(SearchOptions{ShortName: "PACE_OCI_L2_SFREFL"}, testContext())
	require.Nil(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "G1-OB_CLOUD", fc.Features[0].PropertyString("conceptId"))
	assert.NotNil(t, fc.Features[0].Bbox)
}

func TestDownload_Bearer(t *testing.T) {
	body, err := Download(mockServer.URL+"/granules/PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", testContext())
	assert.Nil(t, err)
	assert.Equal(t, granuleBytes, body)
}

func TestDownload_BasicAuthRedirect(t *testing.T) {
	context := &Context{Credentials: util.EarthdataCredentials{Username: "user", Password: "pass"}}
	body, err := Download(mockServer.URL+"/granules/PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", context)
	assert.Nil(t, err)
	assert.Equal(t, granuleBytes, body)

	context = &Context{Credentials: util.EarthdataCredentials{Username: "user", Password: "wrong"}}
	_, err = Download(mockServer.URL+"/granules/PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", context)
	httpErr, ok := err.(util.HTTPErr)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestDownloadToFile(t *testing.T) {
	dir := t.TempDir()
	target, err := DownloadToFile(mockServer.URL+"/granules/PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", dir, testContext())
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "PACE_OCI.20240501T120000.L2.SFREFL.V2.nc"), target)
	written, err := os.ReadFile(target)
	require.Nil(t, err)
	assert.Equal(t, granuleBytes, written)

	_, err = DownloadToFile(mockServer.URL+"/missing.nc", dir, testContext())
	assert.NotNil(t, err)
	_, err = os.Stat(filepath.Join(dir, "missing.nc.part"))
	assert.True(t, os.IsNotExist(err))

	_, err = DownloadToFile(mockServer.URL+"/", dir, testContext())
	assert.NotNil(t, err)
}

func TestBboxParam(t *testing.T) {
	assert.Equal(t, "", bboxParam(nil))
	assert.Equal(t, "1,2,4,5", bboxParam(geojson.BoundingBox{1, 2, 3, 4, 5, 6}))
}
