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

package sampler

import (
	"io"

	"github.com/venicegeo/bf-sr-explorer/model"
)

// FeatureCollection renders samples as GeoJSON point features carrying their spectra
func FeatureCollection(wavelengths []float64, samples []model.PointSample) *model.MultiResult {
	creators := make([]model.GeoJSONFeatureCreator, len(samples))
	for i, s := range samples {
		creators[i] = model.SampleFeature{PointSample: s, Wavelengths: wavelengths}
	}
	return model.NewMultiResult(creators)
}

// WriteGeoJSON writes samples as a GeoJSON FeatureCollection
func WriteGeoJSON(w io.Writer, wavelengths []float64, samples []model.PointSample) error {
	fc, err := FeatureCollection(wavelengths, samples).GeoJSONFeatureCollection()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, fc.String())
	return err
}
