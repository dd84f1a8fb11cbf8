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

package granule

import (
	"fmt"
	"math"
	"reflect"
)

// flatten walks nested slices of numbers in row-major order, returning the
// values and the shape of the array
func flatten(values interface{}) ([]float64, []int, error) {
	v := reflect.ValueOf(values)
	shape := []int{}
	for t := v; t.Kind() == reflect.Slice || t.Kind() == reflect.Array; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	out := make([]float64, 0, product(shape))
	var walk func(reflect.Value, int) error
	walk = func(v reflect.Value, depth int) error {
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			if depth >= len(shape) || v.Len() != shape[depth] {
				return fmt.Errorf("ragged array at depth %d", depth)
			}
			for i := 0; i < v.Len(); i++ {
				if err := walk(v.Index(i), depth+1); err != nil {
					return err
				}
			}
			return nil
		case reflect.Float32, reflect.Float64:
			out = append(out, v.Float())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out = append(out, float64(v.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out = append(out, float64(v.Uint()))
		default:
			return fmt.Errorf("unsupported element type %v", v.Type())
		}
		if depth != len(shape) {
			return fmt.Errorf("ragged array at depth %d", depth)
		}
		return nil
	}
	if !v.IsValid() {
		return nil, nil, fmt.Errorf("no values")
	}
	if err := walk(v, 0); err != nil {
		return nil, nil, err
	}
	return out, shape, nil
}

// flattenInts is flatten for integer flag data, which must not pass through float64
func flattenInts(values interface{}) ([]int64, []int, error) {
	v := reflect.ValueOf(values)
	shape := []int{}
	for t := v; t.Kind() == reflect.Slice || t.Kind() == reflect.Array; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	out := make([]int64, 0, product(shape))
	var walk func(reflect.Value, int) error
	walk = func(v reflect.Value, depth int) error {
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			if depth >= len(shape) || v.Len() != shape[depth] {
				return fmt.Errorf("ragged array at depth %d", depth)
			}
			for i := 0; i < v.Len(); i++ {
				if err := walk(v.Index(i), depth+1); err != nil {
					return err
				}
			}
			return nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out = append(out, v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out = append(out, int64(v.Uint()))
		default:
			return fmt.Errorf("flag values must be integers, got %v", v.Type())
		}
		if depth != len(shape) {
			return fmt.Errorf("ragged array at depth %d", depth)
		}
		return nil
	}
	if !v.IsValid() {
		return nil, nil, fmt.Errorf("no values")
	}
	if err := walk(v, 0); err != nil {
		return nil, nil, err
	}
	return out, shape, nil
}

// scalar reads a numeric attribute that may be stored as a value or a one-element array
func scalar(value interface{}) (float64, bool) {
	values, _, err := flatten(value)
	if err != nil || len(values) == 0 {
		return math.NaN(), false
	}
	return values[0], true
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
