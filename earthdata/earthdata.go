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
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/util"
	"github.com/venicegeo/geojson-go/geojson"
)

const (
	defaultPageSize  = 50
	searchAfterHdr   = "CMR-Search-After"
	hitsHdr          = "CMR-Hits"
	ummJSON          = "application/vnd.nasa.cmr.umm_results+json"
	earthdataURSHost = "urs.earthdata.nasa.gov"
)

// SearchCollections returns the catalog collections matching the short name and version
func SearchCollections(options SearchOptions, context *Context) ([]model.CollectionResult, error) {
	params := url.Values{}
	if options.ShortName != "" {
		params.Set("short_name", options.ShortName)
	}
	if options.Version != "" {
		params.Set("version", options.Version)
	}
	params.Set("page_size", strconv.Itoa(defaultPageSize))

	body, _, err := cmrSearch(cmrRequestInput{method: "GET", inputURL: "collections.umm_json?" + params.Encode(), accept: ummJSON}, "collections", context)
	if err != nil {
		return nil, err
	}
	return parseCollectionResults(context, body)
}

// SearchGranules returns the granules matching the options, following
// CMR-Search-After pages until MaxResults granules are collected
func SearchGranules(options SearchOptions, context *Context) ([]model.GranuleResult, error) {
	if options.ShortName == "" {
		return nil, util.HTTPErr{Status: http.StatusBadRequest, Message: "A collection short name is required to search for granules."}
	}
	params := granuleParams(options)
	pageSize := defaultPageSize
	if options.MaxResults > 0 && options.MaxResults < pageSize {
		pageSize = options.MaxResults
	}
	params.Set("page_size", strconv.Itoa(pageSize))

	var (
		results     []model.GranuleResult
		searchAfter string
	)
	for {
		input := cmrRequestInput{method: "GET", inputURL: "granules.umm_json?" + params.Encode(), accept: ummJSON}
		body, header, err := cmrSearchAfter(input, searchAfter, "granules", context)
		if err != nil {
			return nil, err
		}
		page, err := parseGranuleResults(context, body)
		if err != nil {
			return nil, err
		}
		results = append(results, page...)
		if options.MaxResults > 0 && len(results) >= options.MaxResults {
			results = results[:options.MaxResults]
			break
		}
		searchAfter = header.Get(searchAfterHdr)
		if searchAfter == "" || len(page) == 0 {
			break
		}
		if hits, err := strconv.Atoi(header.Get(hitsHdr)); err == nil && len(results) >= hits {
			break
		}
	}
	util.LogInfo(context, fmt.Sprintf("Found %d granules of %s", len(results), options.ShortName))
	return results, nil
}

// SearchGranulesFeatureCollection renders a granule search as a FeatureCollection
func SearchGranulesFeatureCollection(options SearchOptions, context *Context) (*geojson.FeatureCollection, error) {
	results, err := SearchGranules(options, context)
	if err != nil {
		return nil, err
	}
	featureCreators := make([]model.GeoJSONFeatureCreator, len(results))
	for i, result := range results {
		featureCreators[i] = result
	}
	return model.MultiResult{FeatureCreators: featureCreators}.GeoJSONFeatureCollection()
}

func granuleParams(options SearchOptions) url.Values {
	params := url.Values{}
	params.Set("short_name", options.ShortName)
	if options.Version != "" {
		params.Set("version", options.Version)
	}
	if options.StartDate != "" || options.EndDate != "" {
		params.Set("temporal", options.StartDate+","+options.EndDate)
	}
	if bbox := bboxParam(options.Bbox); bbox != "" {
		params.Set("bounding_box", bbox)
	}
	if options.CloudCover > 0 {
		params.Set("cloud_cover", "0,"+strconv.FormatFloat(options.CloudCover, 'g', -1, 64))
	}
	params.Set("sort_key", "-start_date")
	return params
}

// bboxParam formats a GeoJSON bounding box as CMR's west,south,east,north
func bboxParam(bbox geojson.BoundingBox) string {
	var corners []float64
	switch len(bbox) {
	case 4:
		corners = bbox
	case 6:
		corners = []float64{bbox[0], bbox[1], bbox[3], bbox[4]}
	default:
		return ""
	}
	parts := make([]string, len(corners))
	for i, c := range corners {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func cmrSearch(input cmrRequestInput, what string, context *Context) ([]byte, http.Header, error) {
	return cmrSearchAfter(input, "", what, context)
}

func cmrSearchAfter(input cmrRequestInput, searchAfter string, what string, context *Context) ([]byte, http.Header, error) {
	var (
		response *http.Response
		request  *http.Request
		err      error
	)
	if request, err = newCMRRequest(input, context); err != nil {
		return nil, nil, err
	}
	if searchAfter != "" {
		request.Header.Set(searchAfterHdr, searchAfter)
	}
	if response, err = util.HTTPClient().Do(request); err != nil {
		err = util.LogSimpleErr(context, fmt.Sprintf("Failed to complete CMR request %v.", request.URL), err)
		return nil, nil, err
	}
	defer response.Body.Close()
	switch {
	case (response.StatusCode >= 400) && (response.StatusCode < 500):
		message := fmt.Sprintf("Failed to discover %s from CMR: %v. ", what, response.Status)
		err := util.HTTPErr{Status: response.StatusCode, Message: message}
		util.LogAlert(context, message)
		return nil, nil, err
	case response.StatusCode >= 500:
		err = util.LogSimpleErr(context, fmt.Sprintf("Failed to discover %s from CMR.", what), errors.New(response.Status))
		return nil, nil, err
	default:
		//no op
	}
	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, nil, util.LogSimpleErr(context, "Failed to read CMR response.", err)
	}
	return body, response.Header, nil
}

// newCMRRequest resolves the input URL against the catalog base and builds the request
func newCMRRequest(input cmrRequestInput, context *Context) (*http.Request, error) {
	var (
		request *http.Request
		err     error
	)
	base := context.BaseCMRURL
	if base == "" {
		base = util.GetCMRURL()
	}
	inputURL := input.inputURL
	if !strings.HasPrefix(inputURL, "http") {
		baseURL, err := url.Parse(base)
		if err != nil {
			return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to parse %v into a URL.", base), err)
		}
		relativeURL, err := url.Parse(inputURL)
		if err != nil {
			return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to parse %v into a URL.", inputURL), err)
		}
		inputURL = baseURL.ResolveReference(relativeURL).String()
	}
	if request, err = http.NewRequest(input.method, inputURL, nil); err != nil {
		err = util.LogSimpleErr(context, fmt.Sprintf("Failed to make a new HTTP request for %v.", inputURL), err)
		return nil, err
	}
	if input.accept != "" {
		request.Header.Set("Accept", input.accept)
	}
	util.LogAudit(context, util.LogAuditInput{Actor: "earthdata/cmrRequest", Action: input.method, Actee: inputURL, Message: "Requesting data from CMR", Severity: util.INFO})
	return request, nil
}

// Download fetches a granule with the context's Earthdata credentials
func Download(link string, context *Context) ([]byte, error) {
	response, err := download(link, context)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to read granule %v.", link), err)
	}
	return body, nil
}

// DownloadToFile streams a granule into dir, returning the written path
func DownloadToFile(link, dir string, context *Context) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", util.LogSimpleErr(context, fmt.Sprintf("Failed to parse %v into a URL.", link), err)
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return "", util.HTTPErr{Status: http.StatusBadRequest, Message: fmt.Sprintf("No file name in %v.", link)}
	}
	response, err := download(link, context)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	target := filepath.Join(dir, name)
	partial := target + ".part"
	file, err := os.Create(partial)
	if err != nil {
		return "", util.LogSimpleErr(context, fmt.Sprintf("Failed to create %v.", partial), err)
	}
	if _, err = io.Copy(file, response.Body); err != nil {
		file.Close()
		os.Remove(partial)
		return "", util.LogSimpleErr(context, fmt.Sprintf("Failed to write granule %v.", link), err)
	}
	if err = file.Close(); err != nil {
		os.Remove(partial)
		return "", util.LogSimpleErr(context, fmt.Sprintf("Failed to write granule %v.", link), err)
	}
	if err = os.Rename(partial, target); err != nil {
		return "", util.LogSimpleErr(context, fmt.Sprintf("Failed to move granule into %v.", target), err)
	}
	util.LogInfo(context, fmt.Sprintf("Downloaded %v to %v", link, target))
	return target, nil
}

func download(link string, context *Context) (*http.Response, error) {
	request, err := http.NewRequest("GET", link, nil)
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to make a new HTTP request for %v.", link), err)
	}
	credentials := context.Credentials
	if credentials.IsEmpty() {
		credentials = util.GetEarthdataCredentials()
	}
	authorize(request, credentials)

	client := downloadClient(credentials)
	util.LogAudit(context, util.LogAuditInput{Actor: "earthdata/download", Action: "GET", Actee: link, Message: "Downloading granule", Severity: util.INFO})
	response, err := client.Do(request)
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to download %v.", link), err)
	}
	switch {
	case (response.StatusCode >= 400) && (response.StatusCode < 500):
		response.Body.Close()
		message := fmt.Sprintf("Failed to download granule %v: %v. ", link, response.Status)
		util.LogAlert(context, message)
		return nil, util.HTTPErr{Status: response.StatusCode, Message: message}
	case response.StatusCode >= 500:
		response.Body.Close()
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to download granule %v.", link), errors.New(response.Status))
	default:
		//no op
	}
	return response, nil
}

func authorize(request *http.Request, credentials util.EarthdataCredentials) {
	switch {
	case credentials.Token != "":
		request.Header.Set("Authorization", "Bearer "+credentials.Token)
	case credentials.Username != "":
		request.SetBasicAuth(credentials.Username, credentials.Password)
	}
}

// downloadClient follows the Earthdata Login redirect dance: credentials are
// re-sent to the login host and the session cookie it sets is kept
func downloadClient(credentials util.EarthdataCredentials) *http.Client {
	base := util.HTTPClient()
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Transport: base.Transport,
		Timeout:   base.Timeout,
		Jar:       jar,
		CheckRedirect: func(request *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			if request.URL.Hostname() == earthdataURSHost || request.URL.Hostname() == via[0].URL.Hostname() {
				authorize(request, credentials)
			}
			return nil
		},
	}
}
