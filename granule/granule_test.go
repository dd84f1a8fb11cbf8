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
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venicegeo/bf-sr-explorer/model"
)

// Mock NetCDF file tree

type fakeAttributes map[string]interface{}

func (a fakeAttributes) Keys() []string {
	keys := []string{}
	for k := range a {
		keys = append(keys, k)
	}
	return keys
}
func (a fakeAttributes) Get(key string) (interface{}, bool) {
	v, ok := a[key]
	return v, ok
}
func (a fakeAttributes) GetType(key string) (string, bool)   { return "", false }
func (a fakeAttributes) GetGoType(key string) (string, bool) { return "", false }

type fakeGroup struct {
	attrs     fakeAttributes
	variables map[string]*api.Variable
	groups    map[string]*fakeGroup
}

func (g *fakeGroup) Close()                                          {}
func (g *fakeGroup) Attributes() api.AttributeMap                    { return g.attrs }
func (g *fakeGroup) ListTypes() []string                             { return nil }
func (g *fakeGroup) GetType(string) (string, bool)                   { return "", false }
func (g *fakeGroup) GetGoType(string) (string, bool)                 { return "", false }
func (g *fakeGroup) GetVarGetter(name string) (api.VarGetter, error) { return nil, errors.New("unsupported") }
func (g *fakeGroup) ListVariables() []string {
	names := []string{}
	for k := range g.variables {
		names = append(names, k)
	}
	return names
}
func (g *fakeGroup) ListSubgroups() []string {
	names := []string{}
	for k := range g.groups {
		names = append(names, k)
	}
	return names
}
func (g *fakeGroup) GetVariable(name string) (*api.Variable, error) {
	if v, ok := g.variables[name]; ok {
		return v, nil
	}
	return nil, errors.New("not found")
}
func (g *fakeGroup) GetGroup(name string) (api.Group, error) {
	if sub, ok := g.groups[name]; ok {
		return sub, nil
	}
	return nil, errors.New("not found")
}

// fakeGranule has 2 lines, 3 pixels and 2 bands
func fakeGranule() *fakeGroup {
	rhos := [][][]int16{
		{{100, 200}, {-32767, 300}, {400, 500}},
		{{600, 700}, {800, 900}, {1000, 1100}},
	}
	return &fakeGroup{
		attrs: fakeAttributes{
			"product_name":        "PACE_OCI.20240501T120000.L2.SFREFL.V2.nc",
			"time_coverage_start": "2024-05-01T12:00:00.000Z",
			"time_coverage_end":   "2024-05-01T12:05:00.000Z",
		},
		groups: map[string]*fakeGroup{
			"geophysical_data": {variables: map[string]*api.Variable{
				"rhos": {
					Values:     rhos,
					Dimensions: []string{"number_of_lines", "pixels_per_line", "wavelength_3d"},
					Attributes: fakeAttributes{"scale_factor": float32(0.001), "add_offset": float32(0), "_FillValue": int16(-32767)},
				},
				"l2_flags": {
					Values:     [][]int32{{0, 2, 512}, {1, 0, 1 << 30}},
					Dimensions: []string{"number_of_lines", "pixels_per_line"},
					Attributes: fakeAttributes{"flag_meanings": "ATMFAIL LAND", "flag_masks": []int32{1, 2}},
				},
			}},
			"navigation_data": {variables: map[string]*api.Variable{
				"longitude": {Values: [][]float32{{-70, -69.9, -69.8}, {-70, -69.9, -69.8}}, Dimensions: []string{"number_of_lines", "pixels_per_line"}},
				"latitude":  {Values: [][]float32{{40, 40, 40}, {39.9, 39.9, 39.9}}, Dimensions: []string{"number_of_lines", "pixels_per_line"}},
			}},
			"sensor_band_parameters": {variables: map[string]*api.Variable{
				"wavelength_3d": {Values: []float32{555, 645}, Dimensions: []string{"wavelength_3d"}},
			}},
		},
	}
}

func TestMaterialize(t *testing.T) {
	// Tested code
	g, err := Materialize(fakeGranule(), DefaultLayout)

	// Asserts
	require.Nil(t, err)
	assert.Equal(t, "PACE_OCI.20240501T120000.L2.SFREFL.V2.nc", g.ID)
	assert.Equal(t, 5, g.End.Minute())
	assert.Equal(t, "wavelength_3d", g.BandCoord)
	assert.Equal(t, []int{2, 3, 2}, g.Cube.Shape)
	assert.InDelta(t, 0.1, g.Cube.Values[0], 1e-6)
	assert.True(t, math.IsNaN(g.Cube.Values[2]))
	assert.InDelta(t, 0.3, g.Cube.Values[3], 1e-6)
	assert.Equal(t, []float64{555, 645}, g.Cube.Coords["wavelength_3d"].Values)
	assert.Equal(t, []string{"number_of_lines", "pixels_per_line"}, g.Cube.GeoDims)
	assert.InDelta(t, -69.9, g.Cube.Lon[1], 1e-4)

	require.NotNil(t, g.Flags)
	assert.Equal(t, []int64{0, 2, 512, 1, 0, 1 << 30}, g.Flags.Values)
	assert.Equal(t, "ATMFAIL LAND", g.Flags.Meanings)
	assert.Equal(t, []int64{1, 2}, g.Flags.Masks)
}

func TestMaterialize_MissingVariable(t *testing.T) {
	root := fakeGranule()
	delete(root.groups["geophysical_data"].variables, "rhos")
	_, err := Materialize(root, DefaultLayout)
	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "geophysical_data/rhos", nf.Name)

	_, err = Materialize(fakeGranule(), Layout{ReflectanceGroup: "nope", Reflectance: "rhos"})
	assert.True(t, errors.As(err, &nf))
}

func TestMaterialize_ShapeMismatch(t *testing.T) {
	root := fakeGranule()
	root.groups["sensor_band_parameters"].variables["wavelength_3d"].Values = []float32{555}
	_, err := Materialize(root, DefaultLayout)
	assert.NotNil(t, err)

	root = fakeGranule()
	root.groups["navigation_data"].variables["longitude"].Values = [][]float32{{1, 2}}
	_, err = Materialize(root, DefaultLayout)
	assert.NotNil(t, err)
}

func TestMaterialize_NoFlags(t *testing.T) {
	layout := DefaultLayout
	layout.Flags = ""
	g, err := Materialize(fakeGranule(), layout)
	require.Nil(t, err)
	assert.Nil(t, g.Flags)
}

func TestFlatten(t *testing.T) {
	values, shape, err := flatten([][]uint8{{1, 2}, {3, 4}})
	assert.Nil(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, values)
	assert.Equal(t, []int{2, 2}, shape)

	_, _, err = flatten([][]float64{{1, 2}, {3}})
	assert.NotNil(t, err)
	_, _, err = flatten([]string{"a"})
	assert.NotNil(t, err)
	_, _, err = flattenInts([]float32{1})
	assert.NotNil(t, err)

	v, ok := scalar([]float32{0.5})
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
	_, ok = scalar("x")
	assert.False(t, ok)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.nc"), DefaultLayout, nil)
	assert.NotNil(t, err)
	_, err = Read([]byte("not a netcdf file"), DefaultLayout, nil)
	assert.NotNil(t, err)
}
