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

package store

import (
	"math"
	"time"

	"github.com/venicegeo/bf-sr-explorer/pipeline"
	"github.com/venicegeo/geojson-go/geojson"
)

// GranuleRecord is a row of public.granules
type GranuleRecord struct {
	ID          string
	Start       time.Time
	End         time.Time
	BandCoord   string
	Wavelengths []float64
	CRS         string
	Resolution  float64
	ValidPixels int
	Bbox        geojson.BoundingBox
}

// NewGranuleRecord describes a processed result
func NewGranuleRecord(result *pipeline.Result) GranuleRecord {
	record := GranuleRecord{ValidPixels: result.ValidPixels}
	if g := result.Granule; g != nil {
		record.ID, record.Start, record.End, record.BandCoord = g.ID, g.Start, g.End, g.BandCoord
	}
	if grid := result.Grid; grid != nil {
		record.Wavelengths = grid.Wavelengths
		record.CRS = grid.CRS
		record.Resolution = grid.Resolution
		if len(grid.X) > 0 && len(grid.Y) > 0 {
			half := grid.Resolution / 2
			xmin, xmax := minMax(grid.X)
			ymin, ymax := minMax(grid.Y)
			record.Bbox = geojson.BoundingBox{xmin - half, ymin - half, xmax + half, ymax + half}
		}
	}
	return record
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

// indexValues stores non-finite index values as JSON null
type indexValues map[string]*float64

func toIndexValues(values map[string]float64) indexValues {
	out := indexValues{}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[name] = nil
			continue
		}
		value := v
		out[name] = &value
	}
	return out
}

func (iv indexValues) values() map[string]float64 {
	out := make(map[string]float64, len(iv))
	for name, v := range iv {
		if v == nil {
			out[name] = math.NaN()
		} else {
			out[name] = *v
		}
	}
	return out
}
