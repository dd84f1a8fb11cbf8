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

package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/venicegeo/geojson-go/geojson"
)

// Point is a user-selected query location
type Point struct {
	ID  string
	Lon float64
	Lat float64
}

// PointSample is the spectrum of the grid cell nearest a query point
type PointSample struct {
	ID       string
	Lon      float64
	Lat      float64
	Spectrum []float64
}

// SpectrumData is a mixin holding a spectrum aligned with its wavelengths.
// Non-finite values are written as null.
type SpectrumData struct {
	Wavelengths []float64
	Values      []float64
}

// Apply implements the GeoJSONFeatureMixin interface
func (sd SpectrumData) Apply(feature *geojson.Feature) error {
	if len(sd.Wavelengths) != len(sd.Values) {
		return fmt.Errorf("spectrum has %d values for %d wavelengths", len(sd.Values), len(sd.Wavelengths))
	}
	spectrum := make(map[string]interface{}, len(sd.Values))
	for i, w := range sd.Wavelengths {
		key := strconv.FormatFloat(w, 'g', -1, 64)
		if v := sd.Values[i]; math.IsNaN(v) || math.IsInf(v, 0) {
			spectrum[key] = nil
		} else {
			spectrum[key] = v
		}
	}
	if feature.Properties == nil {
		feature.Properties = map[string]interface{}{}
	}
	feature.Properties["spectrum"] = spectrum
	return nil
}

// SampleFeature wraps a PointSample with the wavelengths needed to describe it
type SampleFeature struct {
	PointSample
	Wavelengths []float64
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (sf SampleFeature) GeoJSONFeature() (*geojson.Feature, error) {
	feature := geojson.NewFeature(geojson.NewPoint([]float64{sf.Lon, sf.Lat}), sf.ID, map[string]interface{}{
		"longitude": sf.Lon,
		"latitude":  sf.Lat,
	})
	if err := (SpectrumData{Wavelengths: sf.Wavelengths, Values: sf.Spectrum}).Apply(feature); err != nil {
		return nil, err
	}
	return feature, nil
}
