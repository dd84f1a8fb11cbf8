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

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-sr-explorer/display"
	"github.com/venicegeo/bf-sr-explorer/indices"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/sampler"
	"github.com/venicegeo/bf-sr-explorer/util"
)

type selectionJSON struct {
	ID        string              `json:"id"`
	Longitude float64             `json:"longitude"`
	Latitude  float64             `json:"latitude"`
	Spectrum  []*float64          `json:"spectrum"`
	Indices   map[string]*float64 `json:"indices"`
}

func toSelectionJSON(sel Selection) selectionJSON {
	out := selectionJSON{
		ID:        sel.ID,
		Longitude: sel.Lon,
		Latitude:  sel.Lat,
		Spectrum:  make([]*float64, len(sel.Spectrum)),
		Indices:   make(map[string]*float64, len(sel.Indices)),
	}
	for i, v := range sel.Spectrum {
		out.Spectrum[i] = finiteOrNil(v)
	}
	for name, v := range sel.Indices {
		out.Indices[name] = finiteOrNil(v)
	}
	return out
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func writeJSON(writer http.ResponseWriter, status int, value interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(value)
}

// PointsHandler is a handler for /session/points
// @Title sessionPointsHandler
// @Description POST selects a point (JSON {"lon", "lat"} or form values); GET returns the selected samples as CSV
// @Router /session/points [get,post]
type PointsHandler struct {
	Session *Session
}

// ServeHTTP implements the http.Handler interface for the PointsHandler type
func (h PointsHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	switch request.Method {
	case "POST":
		h.selectPoint(writer, request)
	case "GET":
		status, err := h.Session.Status()
		if err != nil {
			util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writer.Header().Set("Content-Type", "text/csv")
		if err = sampler.WriteCSV(writer, status.Wavelengths, status.Samples()); err != nil {
			util.LogSimpleErr(h.Session.context, "Failed to write samples CSV.", err)
		}
	default:
		util.HTTPError(request, writer, h.Session.context, "Method not allowed: "+request.Method, http.StatusMethodNotAllowed)
	}
}

func (h PointsHandler) selectPoint(writer http.ResponseWriter, request *http.Request) {
	event, err := parsePointSelected(request)
	if err != nil {
		util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusBadRequest)
		return
	}
	selection, err := h.Session.Select(request.Context(), event)
	if err != nil {
		status := http.StatusInternalServerError
		var paramErr *model.InvalidParameterError
		switch {
		case errors.As(err, &paramErr):
			status = http.StatusBadRequest
		case errors.Is(err, ErrSessionClosed):
			status = http.StatusServiceUnavailable
		}
		util.HTTPError(request, writer, h.Session.context, err.Error(), status)
		return
	}
	writeJSON(writer, http.StatusCreated, toSelectionJSON(selection))
}

func parsePointSelected(request *http.Request) (PointSelected, error) {
	var event PointSelected
	if strings.HasPrefix(request.Header.Get("Content-Type"), "application/json") {
		body, err := ioutil.ReadAll(request.Body)
		if err != nil {
			return event, err
		}
		if err = json.Unmarshal(body, &event); err != nil {
			return event, fmt.Errorf("invalid point: %v", err)
		}
		return event, nil
	}
	var err error
	if event.Lon, err = strconv.ParseFloat(request.FormValue("lon"), 64); err != nil {
		return event, fmt.Errorf("Longitude value of %v is invalid.", request.FormValue("lon"))
	}
	if event.Lat, err = strconv.ParseFloat(request.FormValue("lat"), 64); err != nil {
		return event, fmt.Errorf("Latitude value of %v is invalid.", request.FormValue("lat"))
	}
	return event, nil
}

// PointsGeoJSONHandler is a handler for /session/points.geojson
type PointsGeoJSONHandler struct {
	Session *Session
}

// ServeHTTP implements the http.Handler interface for the PointsGeoJSONHandler type
func (h PointsGeoJSONHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	status, err := h.Session.Status()
	if err != nil {
		util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writer.Header().Set("Content-Type", "application/geo+json")
	if err = sampler.WriteGeoJSON(writer, status.Wavelengths, status.Samples()); err != nil {
		util.LogSimpleErr(h.Session.context, "Failed to write samples GeoJSON.", err)
	}
}

type indexPointJSON struct {
	ID    string   `json:"id"`
	Value *float64 `json:"value"`
}

// IndexHandler is a handler for /session/index/{formula}
// @Title sessionIndexHandler
// @Description the index image over the regridded granule, or with format=json the index value at each selected point
// @Param   formula  path    string  true   "The index formula, e.g. CIRE"
// @Param   format   query   string  false  "png (default), tif or json"
// @Router /session/index/{formula} [get]
type IndexHandler struct {
	Session *Session
}

// ServeHTTP implements the http.Handler interface for the IndexHandler type
func (h IndexHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	formula, err := indices.Default().Lookup(mux.Vars(request)["formula"])
	if err != nil {
		util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusNotFound)
		return
	}
	format := strings.ToLower(request.FormValue("format"))
	if format == "" {
		format = "png"
	}

	if format == "json" {
		status, err := h.Session.Status()
		if err != nil {
			util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusServiceUnavailable)
			return
		}
		points := make([]indexPointJSON, len(status.Selections))
		for i, sel := range status.Selections {
			value, err := h.Session.registry.Evaluate(formula.Name, status.Wavelengths, sel.Spectrum)
			if err != nil {
				util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusInternalServerError)
				return
			}
			points[i] = indexPointJSON{ID: sel.ID, Value: finiteOrNil(value)}
		}
		writeJSON(writer, http.StatusOK, map[string]interface{}{"formula": formula.Name, "points": points})
		return
	}
	if !display.Supported(format) {
		util.HTTPError(request, writer, h.Session.context, fmt.Sprintf("Unsupported format %v.", format), http.StatusBadRequest)
		return
	}

	field, err := h.Session.IndexField(formula.Name)
	if err != nil {
		util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusInternalServerError)
		return
	}
	img, err := display.IndexImage(field, display.Viridis, 0, 0)
	if err != nil {
		util.HTTPError(request, writer, h.Session.context, err.Error(), http.StatusInternalServerError)
		return
	}
	contentType := "image/png"
	if format != "png" {
		contentType = "image/tiff"
	}
	writer.Header().Set("Content-Type", contentType)
	if err = display.EncodeImage(writer, img, format); err != nil {
		util.LogSimpleErr(h.Session.context, "Failed to encode index image.", err)
	}
}
