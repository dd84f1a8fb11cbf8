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
	"encoding/json"
	"strings"

	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/util"
	"github.com/venicegeo/geojson-go/geojson"
)

const (
	relatedURLData   = "GET DATA"
	relatedURLBrowse = "GET RELATED VISUALIZATION"
)

func parseGranuleResults(context util.LogContext, body []byte) ([]model.GranuleResult, error) {
	var parsed ummGranuleResults
	if err := json.Unmarshal(body, &parsed); err != nil {
		edErr := util.Error{LogMsg: "Failed to Unmarshal granule search response from CMR: " + err.Error(),
			SimpleMsg: "CMR returned an unexpected response for this request. See log for further details.",
			Response:  string(body)}
		return nil, edErr.Log(context, "")
	}
	results := make([]model.GranuleResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		results = append(results, granuleResult(context, item))
	}
	return results, nil
}

func granuleResult(context util.LogContext, item ummGranuleItem) model.GranuleResult {
	umm := item.UMM
	result := model.GranuleResult{BasicGranuleResult: model.BasicGranuleResult{
		ID:           umm.GranuleUR,
		ConceptID:    item.Meta.ConceptID,
		CollectionID: item.Meta.CollectionConceptID,
		Geometry:     granuleGeometry(umm.SpatialExtent),
		CloudCover:   -1,
		FileFormat:   model.FileFormatFromName(umm.GranuleUR),
	}}
	if result.ID == "" {
		result.ID = item.Meta.NativeID
	}
	if umm.CloudCover != nil {
		result.CloudCover = *umm.CloudCover
	}

	begin, end := umm.TemporalExtent.RangeDateTime.BeginningDateTime, umm.TemporalExtent.RangeDateTime.EndingDateTime
	if begin == "" {
		begin, end = umm.TemporalExtent.SingleDateTime, umm.TemporalExtent.SingleDateTime
	}
	var err error
	if begin != "" {
		if result.StartDate, err = model.ParseCMRTime(begin); err != nil {
			util.LogAlert(context, err.Error()+" :: in granule "+result.ID)
		}
	}
	if end != "" {
		if result.EndDate, err = model.ParseCMRTime(end); err != nil {
			util.LogAlert(context, err.Error()+" :: in granule "+result.ID)
		}
	}

	for _, info := range umm.DataGranule.ArchiveAndDistributionInformation {
		if format := model.FileFormatFromName(info.Name); format != model.Unknown {
			result.FileFormat = format
			break
		}
		if strings.Contains(strings.ToLower(info.Format), "netcdf") {
			result.FileFormat = model.NetCDF4
			break
		}
	}

	for _, related := range umm.RelatedUrls {
		switch related.Type {
		case relatedURLData:
			if strings.HasPrefix(related.URL, "http") {
				result.Links.Data = append(result.Links.Data, related.URL)
			}
		case relatedURLBrowse:
			result.Links.Browse = append(result.Links.Browse, related.URL)
		}
	}
	return result
}

func granuleGeometry(extent ummSpatialExtent) interface{} {
	geometry := extent.HorizontalSpatialDomain.Geometry
	if len(geometry.GPolygons) > 0 && len(geometry.GPolygons[0].Boundary.Points) > 2 {
		ring := [][]float64{}
		for _, p := range geometry.GPolygons[0].Boundary.Points {
			ring = append(ring, []float64{p.Longitude, p.Latitude})
		}
		return geojson.NewPolygon([][][]float64{ring})
	}
	if len(geometry.BoundingRectangles) > 0 {
		r := geometry.BoundingRectangles[0]
		return geojson.NewPolygon([][][]float64{{
			{r.West, r.South}, {r.East, r.South}, {r.East, r.North}, {r.West, r.North}, {r.West, r.South},
		}})
	}
	return nil
}

func parseCollectionResults(context util.LogContext, body []byte) ([]model.CollectionResult, error) {
	var parsed ummCollectionResults
	if err := json.Unmarshal(body, &parsed); err != nil {
		edErr := util.Error{LogMsg: "Failed to Unmarshal collection search response from CMR: " + err.Error(),
			SimpleMsg: "CMR returned an unexpected response for this request. See log for further details.",
			Response:  string(body)}
		return nil, edErr.Log(context, "")
	}
	results := make([]model.CollectionResult, len(parsed.Items))
	for i, item := range parsed.Items {
		results[i] = model.CollectionResult{
			ConceptID: item.Meta.ConceptID,
			ShortName: item.UMM.ShortName,
			Version:   item.UMM.Version,
			Title:     item.UMM.EntryTitle,
		}
	}
	return results, nil
}
