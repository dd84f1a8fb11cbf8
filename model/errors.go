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
	"fmt"
	"strings"
)

// NotFoundError is returned when a coordinate, band, or formula lookup misses
type NotFoundError struct {
	What string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Name)
}

// UnknownFlagError is returned when a mask rule names a flag absent from the category table
type UnknownFlagError struct {
	Flag  string
	Known []string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown quality flag %q (known: %s)", e.Flag, strings.Join(e.Known, ", "))
}

// CRSError is returned when a target coordinate reference system cannot be used
type CRSError struct {
	CRS string
	Err error
}

func (e *CRSError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unsupported CRS %q", e.CRS)
	}
	return fmt.Sprintf("unsupported CRS %q: %v", e.CRS, e.Err)
}

func (e *CRSError) Unwrap() error {
	return e.Err
}

// DegenerateInputError is returned when the valid-pixel mean leaves gamma undefined
type DegenerateInputError struct {
	Mean   float64
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input (mean %v): %s", e.Mean, e.Reason)
}

// InvalidParameterError is returned for a parameter outside its allowed range
type InvalidParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}
