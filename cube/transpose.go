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

	"github.com/venicegeo/bf-sr-explorer/model"
)

// Strides returns row-major strides for a shape
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	step := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
	}
	return strides
}

// TransposeValues reorders a row-major array so that output axis i is input axis perm[i]
func TransposeValues(values []float64, shape []int, perm []int) []float64 {
	n := len(shape)
	oldStrides := Strides(shape)
	newShape := make([]int, n)
	for i, p := range perm {
		newShape[i] = shape[p]
	}
	out := make([]float64, len(values))
	idx := make([]int, n)
	for o := range out {
		offset := 0
		for i := 0; i < n; i++ {
			offset += idx[i] * oldStrides[perm[i]]
		}
		out[o] = values[offset]
		for i := n - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < newShape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out
}

// Transpose returns a copy of the cube with its dimensions in the given order.
// Geolocation arrays follow the new order of the spatial dimensions.
func Transpose(c *model.SpectralCube, order []string) (*model.SpectralCube, error) {
	if len(order) != len(c.Dims) {
		return nil, fmt.Errorf("transpose order %v does not match dims %v", order, c.Dims)
	}
	perm := make([]int, len(order))
	seen := map[int]bool{}
	for i, d := range order {
		axis := c.Axis(d)
		if axis < 0 || seen[axis] {
			return nil, fmt.Errorf("transpose order %v does not match dims %v", order, c.Dims)
		}
		seen[axis] = true
		perm[i] = axis
	}

	shape := make([]int, len(perm))
	for i, p := range perm {
		shape[i] = c.Shape[p]
	}
	out := &model.SpectralCube{
		Dims:   append([]string{}, order...),
		Shape:  shape,
		Values: TransposeValues(c.Values, c.Shape, perm),
		Coords: map[string]model.Coordinate{},
		Lon:    c.Lon,
		Lat:    c.Lat,
	}
	for name, coord := range c.Coords {
		out.Coords[name] = coord
	}

	if len(c.GeoDims) == 2 && indexOf(order, c.GeoDims[0]) > indexOf(order, c.GeoDims[1]) {
		geoShape := []int{c.Shape[c.Axis(c.GeoDims[0])], c.Shape[c.Axis(c.GeoDims[1])]}
		out.Lon = TransposeValues(c.Lon, geoShape, []int{1, 0})
		out.Lat = TransposeValues(c.Lat, geoShape, []int{1, 0})
		out.GeoDims = []string{c.GeoDims[1], c.GeoDims[0]}
	} else {
		out.GeoDims = append([]string{}, c.GeoDims...)
	}
	return out, nil
}

// BandMajor transposes the cube so the band dimension of coordName comes first
func BandMajor(c *model.SpectralCube, coordName string) (*model.SpectralCube, error) {
	coord, ok := c.Coords[coordName]
	if !ok {
		return nil, &model.NotFoundError{What: "coordinate", Name: coordName}
	}
	if c.Axis(coord.Dim) == 0 {
		return c, nil
	}
	order := append([]string{coord.Dim}, c.SpatialDims(coord.Dim)...)
	return Transpose(c, order)
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
