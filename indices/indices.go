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
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/venicegeo/bf-sr-explorer/cube"
	"github.com/venicegeo/bf-sr-explorer/model"
)

// Formula is a band-ratio index. Expression receives one reflectance per
// entry of Bands, in the same order.
type Formula struct {
	Name        string
	Description string
	Bands       []float64
	Expression  func(b []float64) float64
}

// BandLookup resolves a band by wavelength on a shared grid
type BandLookup interface {
	Band(wavelength float64) ([]float64, error)
	Grid() (x, y []float64)
}

// GridLookup serves bands from a regridded cube by nearest wavelength
type GridLookup struct {
	Cube *model.RegriddedCube
}

// Band implements BandLookup
func (gl GridLookup) Band(wavelength float64) ([]float64, error) {
	slice, err := cube.SelectGridBand(gl.Cube, wavelength)
	if err != nil {
		return nil, err
	}
	return slice.Values, nil
}

// Grid implements BandLookup
func (gl GridLookup) Grid() ([]float64, []float64) {
	return gl.Cube.X, gl.Cube.Y
}

// CIRE is the red-edge chlorophyll index
var CIRE = Formula{
	Name:        "CIRE",
	Description: "chlorophyll index red edge, b800 / b705 - 1",
	Bands:       []float64{800, 705},
	Expression: func(b []float64) float64 {
		return b[0]/b[1] - 1
	},
}

// CAR is the carotenoid index
var CAR = Formula{
	Name:        "CAR",
	Description: "carotenoid index, (1 / b495 - 1 / b705) * b800",
	Bands:       []float64{495, 705, 800},
	Expression: func(b []float64) float64 {
		return (1/b[0] - 1/b[1]) * b[2]
	},
}

// Registry holds the index formulas available by name
type Registry struct {
	mutex    sync.RWMutex
	formulas map[string]Formula
}

// NewRegistry returns a registry holding the built-in formulas
func NewRegistry() *Registry {
	r := &Registry{formulas: map[string]Formula{}}
	for _, f := range []Formula{CIRE, CAR} {
		r.formulas[key(f.Name)] = f
	}
	return r
}

func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Register adds a formula. Names are case-insensitive and may not be reused.
func (r *Registry) Register(f Formula) error {
	if key(f.Name) == "" {
		return errors.New("formula needs a name")
	}
	if len(f.Bands) == 0 || f.Expression == nil {
		return fmt.Errorf("formula %s needs bands and an expression", f.Name)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.formulas[key(f.Name)]; ok {
		return fmt.Errorf("formula %s is already registered", f.Name)
	}
	r.formulas[key(f.Name)] = f
	return nil
}

// Lookup returns the named formula
func (r *Registry) Lookup(name string) (Formula, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	f, ok := r.formulas[key(name)]
	if !ok {
		return Formula{}, &model.NotFoundError{What: "formula", Name: name}
	}
	return f, nil
}

// Names lists the registered formulas
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.formulas))
	for _, f := range r.formulas {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Compute evaluates a formula cell by cell. Division follows IEEE rules, so a
// zero denominator yields an infinity or NaN rather than an error.
func (r *Registry) Compute(name string, lookup BandLookup) (*model.Field, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	x, y := lookup.Grid()
	cells := len(x) * len(y)
	bands := make([][]float64, len(f.Bands))
	for i, w := range f.Bands {
		if bands[i], err = lookup.Band(w); err != nil {
			return nil, err
		}
		if len(bands[i]) != cells {
			return nil, fmt.Errorf("band %v has %d cells, grid has %d", w, len(bands[i]), cells)
		}
	}

	values := make([]float64, cells)
	args := make([]float64, len(bands))
	for c := range values {
		for i := range bands {
			args[i] = bands[i][c]
		}
		values[c] = f.Expression(args)
	}
	return &model.Field{Name: f.Name, X: x, Y: y, Values: values}, nil
}

// Evaluate applies a formula to a single spectrum sampled at wavelengths
func (r *Registry) Evaluate(name string, wavelengths, spectrum []float64) (float64, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	if len(wavelengths) == 0 || len(wavelengths) != len(spectrum) {
		return 0, fmt.Errorf("spectrum has %d values for %d wavelengths", len(spectrum), len(wavelengths))
	}
	args := make([]float64, len(f.Bands))
	for i, w := range f.Bands {
		index := cube.NearestIndex(wavelengths, w)
		if index < 0 {
			return 0, &model.NotFoundError{What: "band", Name: fmt.Sprintf("%v nm", w)}
		}
		args[i] = spectrum[index]
	}
	return f.Expression(args), nil
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// Compute evaluates a formula from the default registry
func Compute(name string, lookup BandLookup) (*model.Field, error) {
	return defaultRegistry.Compute(name, lookup)
}

// Register adds a formula to the default registry
func Register(f Formula) error {
	return defaultRegistry.Register(f)
}
