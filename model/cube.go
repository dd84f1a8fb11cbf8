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
	"fmt"
)

// Coordinate is a 1-D labeled coordinate along one dimension of a cube
type Coordinate struct {
	Dim    string
	Values []float64
}

// SpectralCube is a 3-D reflectance array indexed by named dimensions, stored
// row-major in Values. Lon and Lat hold per-pixel geolocation, row-major over
// GeoDims.
type SpectralCube struct {
	Dims    []string
	Shape   []int
	Values  []float64
	Coords  map[string]Coordinate
	GeoDims []string
	Lon     []float64
	Lat     []float64
}

// NewSpectralCube creates a cube after checking that shape and values agree
func NewSpectralCube(dims []string, shape []int, values []float64) (*SpectralCube, error) {
	if len(dims) != 3 || len(shape) != 3 {
		return nil, fmt.Errorf("spectral cube needs 3 dimensions, got %d dims and %d shape entries", len(dims), len(shape))
	}
	if n := product(shape); n != len(values) {
		return nil, fmt.Errorf("cube shape %v holds %d values, got %d", shape, n, len(values))
	}
	return &SpectralCube{
		Dims:   append([]string{}, dims...),
		Shape:  append([]int{}, shape...),
		Values: values,
		Coords: map[string]Coordinate{},
	}, nil
}

// Axis returns the position of the named dimension, or -1
func (c *SpectralCube) Axis(dim string) int {
	for i, d := range c.Dims {
		if d == dim {
			return i
		}
	}
	return -1
}

// SetCoord attaches a 1-D coordinate to a dimension
func (c *SpectralCube) SetCoord(name, dim string, values []float64) error {
	axis := c.Axis(dim)
	if axis < 0 {
		return fmt.Errorf("no dimension %q for coordinate %q", dim, name)
	}
	if len(values) != c.Shape[axis] {
		return fmt.Errorf("coordinate %q has %d entries, dimension %q has %d", name, len(values), dim, c.Shape[axis])
	}
	if c.Coords == nil {
		c.Coords = map[string]Coordinate{}
	}
	c.Coords[name] = Coordinate{Dim: dim, Values: values}
	return nil
}

// SpatialDims returns the two dimensions other than bandDim, in cube order
func (c *SpectralCube) SpatialDims(bandDim string) []string {
	dims := []string{}
	for _, d := range c.Dims {
		if d != bandDim {
			dims = append(dims, d)
		}
	}
	return dims
}

// Validate checks the cube invariants for the given band coordinate
func (c *SpectralCube) Validate(bandCoord string) error {
	coord, ok := c.Coords[bandCoord]
	if !ok {
		return &NotFoundError{What: "coordinate", Name: bandCoord}
	}
	axis := c.Axis(coord.Dim)
	if axis < 0 {
		return fmt.Errorf("coordinate %q refers to missing dimension %q", bandCoord, coord.Dim)
	}
	if len(coord.Values) != c.Shape[axis] {
		return fmt.Errorf("coordinate %q has %d entries, band axis has %d", bandCoord, len(coord.Values), c.Shape[axis])
	}
	if product(c.Shape) != len(c.Values) {
		return errors.New("cube values do not match cube shape")
	}
	if len(c.GeoDims) != 2 {
		return fmt.Errorf("geolocation needs 2 dims, got %v", c.GeoDims)
	}
	spatial := 1
	for _, d := range c.GeoDims {
		a := c.Axis(d)
		if a < 0 || a == axis {
			return fmt.Errorf("geolocation dim %q is not a spatial dimension", d)
		}
		spatial *= c.Shape[a]
	}
	if len(c.Lon) != spatial || len(c.Lat) != spatial {
		return fmt.Errorf("geolocation arrays have %d/%d entries, spatial axes hold %d", len(c.Lon), len(c.Lat), spatial)
	}
	return nil
}

// BandSlice is a cube with the band dimension removed at one band index
type BandSlice struct {
	Coord      string
	Wavelength float64
	Index      int
	Dims       []string
	Shape      []int
	Values     []float64
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
