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

package indices

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venicegeo/bf-sr-explorer/model"
)

// grid has one band per wavelength in 495, 705, 800 and two cells
func grid(b495, b705, b800 []float64) *model.RegriddedCube {
	values := append(append(append([]float64{}, b495...), b705...), b800...)
	return &model.RegriddedCube{
		BandCoord:   "wavelength_3d",
		Wavelengths: []float64{495, 705, 800},
		X:           []float64{0, 1},
		Y:           []float64{0},
		Values:      values,
	}
}

func TestCompute_CIRE(t *testing.T) {
	// Mock
	g := grid([]float64{0.1, 0.1}, []float64{0.2, 0}, []float64{0.4, 0.3})

	// Tested code
	field, err := NewRegistry().Compute("CIRE", GridLookup{Cube: g})

	// Asserts
	require.Nil(t, err)
	assert.Equal(t, "CIRE", field.Name)
	assert.InDelta(t, 1.0, field.Values[0], 1e-12)
	assert.True(t, math.IsInf(field.Values[1], 1))
	assert.Equal(t, g.X, field.X)
}

func TestCompute_CAR(t *testing.T) {
	g := grid([]float64{0.1, 0}, []float64{0.2, 0}, []float64{0.4, 0})
	field, err := NewRegistry().Compute("car", GridLookup{Cube: g})
	require.Nil(t, err)
	assert.InDelta(t, (1/0.1-1/0.2)*0.4, field.Values[0], 1e-12)
	// Inf - Inf is NaN
	assert.True(t, math.IsNaN(field.Values[1]))
}

func TestCompute_UnknownFormula(t *testing.T) {
	_, err := Compute("NDVI", GridLookup{Cube: grid([]float64{1, 1}, []float64{1, 1}, []float64{1, 1})})
	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "NDVI", nf.Name)
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	ndvi := Formula{
		Name:  "NDVI",
		Bands: []float64{800, 705},
		Expression: func(b []float64) float64 {
			return (b[0] - b[1]) / (b[0] + b[1])
		},
	}
	assert.Nil(t, r.Register(ndvi))
	assert.NotNil(t, r.Register(ndvi))
	assert.NotNil(t, r.Register(Formula{Name: "EMPTY"}))
	assert.NotNil(t, r.Register(Formula{Bands: []float64{1}, Expression: ndvi.Expression}))
	assert.Equal(t, []string{"CAR", "CIRE", "NDVI"}, r.Names())

	field, err := r.Compute("ndvi", GridLookup{Cube: grid([]float64{0, 0}, []float64{0.1, 0}, []float64{0.3, 0})})
	require.Nil(t, err)
	assert.InDelta(t, 0.5, field.Values[0], 1e-12)
	assert.True(t, math.IsNaN(field.Values[1]))

	// The default registry is separate
	_, err = Default().Lookup("NDVI")
	assert.NotNil(t, err)
}

func TestEvaluate(t *testing.T) {
	r := NewRegistry()
	v, err := r.Evaluate("CIRE", []float64{700, 800}, []float64{0.2, 0.4})
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	_, err = r.Evaluate("CIRE", []float64{700}, []float64{0.2, 0.4})
	assert.NotNil(t, err)
	_, err = r.Evaluate("XYZ", []float64{700}, []float64{0.2})
	assert.NotNil(t, err)
}

func TestEvaluate_NoFiniteWavelengths(t *testing.T) {
	// Tested code
	_, err := NewRegistry().Evaluate("CIRE", []float64{math.NaN(), math.NaN()}, []float64{0.2, 0.4})

	// Asserts
	var nf *model.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestCompute_MissingBands(t *testing.T) {
	_, err := NewRegistry().Compute("CIRE", GridLookup{Cube: &model.RegriddedCube{X: []float64{0}, Y: []float64{0}}})
	assert.NotNil(t, err)
}
