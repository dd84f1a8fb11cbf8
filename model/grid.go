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

// RegriddedCube is a spectral cube on a regular grid, stored band-major as
// Values[band][row][col]. X holds cell-center x coordinates west to east and
// Y holds cell-center y coordinates north to south.
type RegriddedCube struct {
	CRS         string
	BandCoord   string
	Wavelengths []float64
	X           []float64
	Y           []float64
	Resolution  float64
	Values      []float64
}

// Width is the number of grid columns
func (g *RegriddedCube) Width() int { return len(g.X) }

// Height is the number of grid rows
func (g *RegriddedCube) Height() int { return len(g.Y) }

// Bands is the number of bands
func (g *RegriddedCube) Bands() int { return len(g.Wavelengths) }

// At returns the value of a band at a grid cell
func (g *RegriddedCube) At(band, row, col int) float64 {
	return g.Values[(band*len(g.Y)+row)*len(g.X)+col]
}

// Band returns a copy of one band plane
func (g *RegriddedCube) Band(band int) []float64 {
	plane := len(g.X) * len(g.Y)
	out := make([]float64, plane)
	copy(out, g.Values[band*plane:(band+1)*plane])
	return out
}

// Spectrum returns the per-band values at a grid cell
func (g *RegriddedCube) Spectrum(row, col int) []float64 {
	out := make([]float64, len(g.Wavelengths))
	for b := range out {
		out[b] = g.At(b, row, col)
	}
	return out
}

// Field is a 2-D scalar field on the grid of a RegriddedCube
type Field struct {
	Name   string
	X      []float64
	Y      []float64
	Values []float64
}

// Width is the number of grid columns
func (f *Field) Width() int { return len(f.X) }

// Height is the number of grid rows
func (f *Field) Height() int { return len(f.Y) }

// At returns the value at a grid cell
func (f *Field) At(row, col int) float64 {
	return f.Values[row*len(f.X)+col]
}
