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

package cube

import (
	"fmt"
	"math"

	"github.com/venicegeo/bf-sr-explorer/model"
)

// NearestIndex returns the index of the value closest to target, taking the
// first one on ties. NaN entries never match.
func NearestIndex(values []float64, target float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, v := range values {
		d := math.Abs(v - target)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// SelectBand extracts the 2-D slice at the band whose coordinate value is nearest target
func SelectBand(c *model.SpectralCube, coordName string, target float64) (*model.BandSlice, error) {
	if len(c.Shape) != 3 || len(c.Dims) != 3 {
		return nil, &model.InvalidParameterError{Name: "cube rank", Value: float64(len(c.Shape)), Reason: "a spectral cube has three dimensions"}
	}
	coord, ok := c.Coords[coordName]
	if !ok || len(coord.Values) == 0 {
		return nil, &model.NotFoundError{What: "coordinate", Name: coordName}
	}
	axis := c.Axis(coord.Dim)
	if axis < 0 {
		return nil, &model.NotFoundError{What: "dimension", Name: coord.Dim}
	}
	index := NearestIndex(coord.Values, target)
	if index < 0 {
		return nil, &model.NotFoundError{What: "band", Name: fmt.Sprintf("%s=%v", coordName, target)}
	}

	dims, shape := []string{}, []int{}
	for i, d := range c.Dims {
		if i != axis {
			dims = append(dims, d)
			shape = append(shape, c.Shape[i])
		}
	}
	strides := Strides(c.Shape)
	values := make([]float64, 0, shape[0]*shape[1])
	a, b := otherAxes(axis)
	for i := 0; i < c.Shape[a]; i++ {
		for j := 0; j < c.Shape[b]; j++ {
			values = append(values, c.Values[i*strides[a]+j*strides[b]+index*strides[axis]])
		}
	}
	return &model.BandSlice{
		Coord:      coordName,
		Wavelength: coord.Values[index],
		Index:      index,
		Dims:       dims,
		Shape:      shape,
		Values:     values,
	}, nil
}

// SelectGridBand extracts the band of a regridded cube whose wavelength is nearest target
func SelectGridBand(g *model.RegriddedCube, target float64) (*model.BandSlice, error) {
	if len(g.Wavelengths) == 0 {
		return nil, &model.NotFoundError{What: "coordinate", Name: g.BandCoord}
	}
	index := NearestIndex(g.Wavelengths, target)
	if index < 0 {
		return nil, &model.NotFoundError{What: "band", Name: fmt.Sprintf("%s=%v", g.BandCoord, target)}
	}
	return &model.BandSlice{
		Coord:      g.BandCoord,
		Wavelength: g.Wavelengths[index],
		Index:      index,
		Dims:       []string{"y", "x"},
		Shape:      []int{g.Height(), g.Width()},
		Values:     g.Band(index),
	}, nil
}

func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}
