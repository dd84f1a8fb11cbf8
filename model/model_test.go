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
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func TestBasicGranuleResult_GeoJSONFeature(t *testing.T) {
	// Mock
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	br := BasicGranuleResult{
		ID:         "PACE_OCI.20240501T120000.L2.SFREFL.nc",
		ConceptID:  "G123-OB_CLOUD",
		Geometry:   geojson.NewPoint([]float64{-70, 40}),
		CloudCover: 12.5,
		StartDate:  start,
		EndDate:    start.Add(5 * time.Minute),
		FileFormat: NetCDF4,
	}

	// Tested code
	feature, err := br.GeoJSONFeature()

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, br.ID, feature.IDStr())
	assert.Equal(t, 12.5, feature.PropertyFloat("cloudCover"))
	assert.Equal(t, "2024-05-01T12:05:00Z", feature.PropertyString("endDate"))
	assert.Equal(t, "netcdf4", feature.PropertyString("fileFormat"))
}

func TestBasicGranuleResult_NoID(t *testing.T) {
	_, err := BasicGranuleResult{}.GeoJSONFeature()
	assert.NotNil(t, err)
}

func TestGranuleResult_Links(t *testing.T) {
	gr := GranuleResult{
		BasicGranuleResult: BasicGranuleResult{ID: "g1"},
		Links:              DataAccessLinks{Data: []string{"https://example.com/g1.nc"}},
	}
	feature, err := gr.GeoJSONFeature()
	assert.Nil(t, err)
	links := feature.Properties["links"].(map[string]interface{})
	assert.Equal(t, []string{"https://example.com/g1.nc"}, links["data"])
	assert.Equal(t, []string{}, links["browse"])
}

func TestMultiResult_GeoJSONFeatureCollection(t *testing.T) {
	// Mock
	mr := NewMultiResult([]GeoJSONFeatureCreator{
		CollectionResult{ConceptID: "C1", ShortName: "PACE_OCI_L2_SFREFL"},
		GranuleResult{BasicGranuleResult: BasicGranuleResult{ID: "g1"}},
	})

	// Tested code
	fc, err := mr.GeoJSONFeatureCollection()

	// Asserts
	assert.Nil(t, err)
	assert.Len(t, fc.Features, 2)
	assert.Equal(t, "PACE_OCI_L2_SFREFL", fc.Features[0].PropertyString("shortName"))
}

func TestMultiResult_PropagatesError(t *testing.T) {
	mr := NewMultiResult([]GeoJSONFeatureCreator{CollectionResult{}})
	_, err := mr.GeoJSONFeatureCollection()
	assert.NotNil(t, err)
}

func TestSampleFeature(t *testing.T) {
	sf := SampleFeature{
		PointSample: PointSample{ID: "p1", Lon: -70.5, Lat: 40.25, Spectrum: []float64{0.1, 0.2, math.NaN()}},
		Wavelengths: []float64{443, 555.5, 670},
	}
	feature, err := sf.GeoJSONFeature()
	assert.Nil(t, err)
	assert.Equal(t, "p1", feature.IDStr())
	assert.Equal(t, map[string]interface{}{"443": 0.1, "555.5": 0.2, "670": nil}, feature.Properties["spectrum"])

	sf.Wavelengths = sf.Wavelengths[:1]
	_, err = sf.GeoJSONFeature()
	assert.NotNil(t, err)
}

func TestParseCMRTime(t *testing.T) {
	for _, s := range []string{"2024-05-01T12:00:00.000Z", "2024-05-01T12:00:00Z", "2024-05-01T12:00:00", "2024-05-01"} {
		parsed, err := ParseCMRTime(s)
		assert.Nil(t, err, s)
		assert.Equal(t, 2024, parsed.Year())
	}
	_, err := ParseCMRTime("yesterday")
	assert.NotNil(t, err)
}

func TestFileFormatFromName(t *testing.T) {
	assert.Equal(t, NetCDF4, FileFormatFromName("granule.NC"))
	assert.Equal(t, HDF5, FileFormatFromName("granule.h5"))
	assert.Equal(t, Unknown, FileFormatFromName("granule.txt"))
}

func TestSpectralCube(t *testing.T) {
	// Mock
	cube, err := NewSpectralCube([]string{"line", "pixel", "band"}, []int{1, 2, 3}, make([]float64, 6))
	assert.Nil(t, err)

	// Tested code
	assert.Nil(t, cube.SetCoord("wavelength", "band", []float64{400, 500, 600}))
	assert.NotNil(t, cube.SetCoord("wavelength", "band", []float64{400}))
	assert.NotNil(t, cube.SetCoord("wavelength", "nope", []float64{400}))

	// Asserts
	assert.Equal(t, 2, cube.Axis("band"))
	assert.Equal(t, []string{"line", "pixel"}, cube.SpatialDims("band"))
	assert.NotNil(t, cube.Validate("wavelength"))
	cube.Lon, cube.Lat = []float64{0, 1}, []float64{0, 1}
	assert.NotNil(t, cube.Validate("wavelength"))
	cube.GeoDims = []string{"line", "pixel"}
	assert.Nil(t, cube.Validate("wavelength"))

	var nf *NotFoundError
	assert.True(t, errors.As(cube.Validate("other"), &nf))

	_, err = NewSpectralCube([]string{"a", "b"}, []int{1, 2}, nil)
	assert.NotNil(t, err)
	_, err = NewSpectralCube([]string{"a", "b", "c"}, []int{1, 2, 2}, nil)
	assert.NotNil(t, err)
}

func TestRegriddedCubeAccessors(t *testing.T) {
	g := &RegriddedCube{
		Wavelengths: []float64{1, 2},
		X:           []float64{0, 1},
		Y:           []float64{1},
		Values:      []float64{1, 2, 3, 4},
	}
	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 1, g.Height())
	assert.Equal(t, 2, g.Bands())
	assert.Equal(t, 4.0, g.At(1, 0, 1))
	assert.Equal(t, []float64{3, 4}, g.Band(1))
	assert.Equal(t, []float64{2, 4}, g.Spectrum(0, 1))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&NotFoundError{What: "formula", Name: "NDVI"}).Error(), "NDVI")
	assert.Contains(t, (&UnknownFlagError{Flag: "FOO", Known: []string{"LAND"}}).Error(), "LAND")
	inner := errors.New("bad")
	crsErr := &CRSError{CRS: "EPSG:0", Err: inner}
	assert.True(t, errors.Is(crsErr, inner))
	assert.Contains(t, (&DegenerateInputError{Mean: 1, Reason: "mean is 1"}).Error(), "mean is 1")
	assert.Contains(t, (&InvalidParameterError{Name: "bright target", Value: 2}).Error(), "bright target")
}
