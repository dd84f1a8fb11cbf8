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

import "fmt"

// FlagField is an integer-encoded quality flag array over the spatial axes of
// a granule. Meanings and Masks carry the flag_meanings / flag_masks
// attributes when the source file declares them.
type FlagField struct {
	Dims     []string
	Shape    []int
	Values   []int64
	Meanings string
	Masks    []int64
}

// NewFlagField creates a flag field after checking its shape
func NewFlagField(dims []string, shape []int, values []int64) (*FlagField, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("flag field has %d dims and %d shape entries", len(dims), len(shape))
	}
	if n := product(shape); n != len(values) {
		return nil, fmt.Errorf("flag field shape %v holds %d values, got %d", shape, n, len(values))
	}
	return &FlagField{Dims: append([]string{}, dims...), Shape: append([]int{}, shape...), Values: values}, nil
}

// Mask is a boolean validity mask shaped like a FlagField
type Mask struct {
	Dims  []string
	Shape []int
	Valid []bool
}

// Count returns the number of valid pixels
func (m Mask) Count() int {
	n := 0
	for _, v := range m.Valid {
		if v {
			n++
		}
	}
	return n
}
