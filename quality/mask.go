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

package quality

import (
	"fmt"
	"math"

	"github.com/venicegeo/bf-sr-explorer/cube"
	"github.com/venicegeo/bf-sr-explorer/model"
)

// BuildMask marks a pixel valid when at least one include flag is active and
// no exclude flag is active. An empty include list places no inclusion
// constraint; a flag named in both lists excludes.
func BuildMask(field *model.FlagField, table *CategoryTable, include, exclude []string) (model.Mask, error) {
	includeBits, err := combine(table, include)
	if err != nil {
		return model.Mask{}, err
	}
	excludeBits, err := combine(table, exclude)
	if err != nil {
		return model.Mask{}, err
	}

	valid := make([]bool, len(field.Values))
	for i, v := range field.Values {
		included := len(include) == 0 || v&includeBits != 0
		valid[i] = included && v&excludeBits == 0
	}
	return model.Mask{
		Dims:  append([]string{}, field.Dims...),
		Shape: append([]int{}, field.Shape...),
		Valid: valid,
	}, nil
}

func combine(table *CategoryTable, names []string) (int64, error) {
	var bits int64
	for _, name := range names {
		mask, err := table.Lookup(name)
		if err != nil {
			return 0, err
		}
		bits |= mask
	}
	return bits, nil
}

// ApplyMask returns a copy of the cube with every band of an invalid pixel set to NaN.
// The mask dims must be the cube's spatial dims.
func ApplyMask(c *model.SpectralCube, mask model.Mask) (*model.SpectralCube, error) {
	if len(mask.Dims) != 2 {
		return nil, fmt.Errorf("mask needs 2 dims, got %v", mask.Dims)
	}
	axes := make([]int, 2)
	for i, d := range mask.Dims {
		if axes[i] = c.Axis(d); axes[i] < 0 || c.Shape[axes[i]] != mask.Shape[i] {
			return nil, fmt.Errorf("mask dim %q (%d) does not match cube dims %v %v", d, mask.Shape[i], c.Dims, c.Shape)
		}
	}
	band := 3 - axes[0] - axes[1]

	out := &model.SpectralCube{
		Dims:    c.Dims,
		Shape:   c.Shape,
		Values:  make([]float64, len(c.Values)),
		Coords:  c.Coords,
		GeoDims: c.GeoDims,
		Lon:     c.Lon,
		Lat:     c.Lat,
	}
	copy(out.Values, c.Values)
	strides := cube.Strides(c.Shape)
	for i := 0; i < mask.Shape[0]; i++ {
		for j := 0; j < mask.Shape[1]; j++ {
			if mask.Valid[i*mask.Shape[1]+j] {
				continue
			}
			base := i*strides[axes[0]] + j*strides[axes[1]]
			for b := 0; b < c.Shape[band]; b++ {
				out.Values[base+b*strides[band]] = math.NaN()
			}
		}
	}
	return out, nil
}
