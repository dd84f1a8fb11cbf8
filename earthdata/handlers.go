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
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-sr-explorer/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// DiscoverHandler is a handler for /discover/{shortName}
// @Title earthdataDiscoverHandler
// @Description discovers surface reflectance granules in the CMR catalog
// @Accept  plain
// @Param   shortName   path    string  true         "The collection short name, e.g. PACE_OCI_L2_SFREFL"
// @Param   version     query   string  false        "The collection version"
// @Param   bbox        query   string  false        "The bounding box, as a GeoJSON Bounding box (x1,y1,x2,y2)"
// @Param   cloudCover  query   string  false        "The maximum cloud cover, as a percentage (0-100)"
// @Param   startDate   query   string  false        "The earliest granule start, as RFC 3339"
// @Param   endDate     query   string  false        "The latest granule start, as RFC 3339"
// @Param   maxResults  query   int     false        "The maximum number of granules returned"
// @Success 200 {object}  geojson.FeatureCollection
// @Failure 400 {object}  string
// @Router /discover/{shortName} [get]
type DiscoverHandler struct {
	Context Context
}

// NewDiscoverHandler creates a new handler using configuration
// from environment variables
func NewDiscoverHandler() *DiscoverHandler {
	return &DiscoverHandler{
		Context: Context{
			BaseCMRURL:  util.GetCMRURL(),
			Credentials: util.GetEarthdataCredentials(),
		},
	}
}

// ServeHTTP implements the http.Handler interface for the DiscoverHandler type
func (h DiscoverHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	var (
		bbox geojson.BoundingBox
		err  error
	)
	options := SearchOptions{
		ShortName: mux.Vars(request)["shortName"],
		Version:   request.FormValue("version"),
		StartDate: request.FormValue("startDate"),
		EndDate:   request.FormValue("endDate"),
	}
	if request.FormValue("bbox") != "" {
		if bbox, err = geojson.NewBoundingBox(request.FormValue("bbox")); err != nil {
			message := fmt.Sprintf("The bbox value of %v is invalid", request.FormValue("bbox"))
			util.LogSimpleErr(&h.Context, message, err)
			util.HTTPError(request, writer, &h.Context, message, http.StatusBadRequest)
			return
		}
		options.Bbox = bbox
	}
	if request.FormValue("cloudCover") != "" {
		if options.CloudCover, err = strconv.ParseFloat(request.FormValue("cloudCover"), 64); err != nil {
			message := fmt.Sprintf("Cloud Cover value of %v is invalid.", request.FormValue("cloudCover"))
			util.LogSimpleErr(&h.Context, message, err)
			util.HTTPError(request, writer, &h.Context, message, http.StatusBadRequest)
			return
		}
	}
	if request.FormValue("maxResults") != "" {
		if options.MaxResults, err = strconv.Atoi(request.FormValue("maxResults")); err != nil || options.MaxResults < 0 {
			message := fmt.Sprintf("Max results value of %v is invalid.", request.FormValue("maxResults"))
			util.HTTPError(request, writer, &h.Context, message, http.StatusBadRequest)
			return
		}
	}

	fc, err := SearchGranulesFeatureCollection(options, &h.Context)
	if err != nil {
		status := http.StatusInternalServerError
		var httpErr util.HTTPErr
		if errors.As(err, &httpErr) {
			status = httpErr.Status
		}
		util.HTTPError(request, writer, &h.Context, err.Error(), status)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.Write([]byte(fc.String()))
}
