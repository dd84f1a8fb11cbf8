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
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/util"
)

// Layout names the groups and variables a granule is read from. Group paths
// are slash separated; an empty group is the root.
type Layout struct {
	ReflectanceGroup string
	Reflectance      string
	FlagsGroup       string
	Flags            string
	NavigationGroup  string
	Longitude        string
	Latitude         string
	BandGroup        string
	Wavelength       string
}

// DefaultLayout matches PACE OCI Level-2 surface reflectance granules
var DefaultLayout = Layout{
	ReflectanceGroup: "geophysical_data",
	Reflectance:      "rhos",
	FlagsGroup:       "geophysical_data",
	Flags:            "l2_flags",
	NavigationGroup:  "navigation_data",
	Longitude:        "longitude",
	Latitude:         "latitude",
	BandGroup:        "sensor_band_parameters",
	Wavelength:       "wavelength_3d",
}

// Open reads a granule file from disk
func Open(path string, layout Layout, context util.LogContext) (*model.Granule, error) {
	root, err := netcdf.Open(path)
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to open granule %v.", path), err)
	}
	defer root.Close()
	g, err := Materialize(root, layout)
	if err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to read granule %v.", path), err)
	}
	if g.ID == "" {
		g.ID = filepath.Base(path)
	}
	util.LogInfo(context, fmt.Sprintf("Read granule %v with cube shape %v", g.ID, g.Cube.Shape))
	return g, nil
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

// Read reads a granule held in memory
func Read(data []byte, layout Layout, context util.LogContext) (*model.Granule, error) {
	root, err := netcdf.New(readSeekNopCloser{bytes.NewReader(data)})
	if err != nil {
		return nil, util.LogSimpleErr(context, "Failed to open in-memory granule.", err)
	}
	defer root.Close()
	g, err := Materialize(root, layout)
	if err != nil {
		return nil, util.LogSimpleErr(context, "Failed to read in-memory granule.", err)
	}
	return g, nil
}

// Materialize loads the reflectance cube, quality flags, geolocation and band
// wavelengths from an open file
func Materialize(root api.Group, layout Layout) (*model.Granule, error) {
	rhos, err := variable(root, layout.ReflectanceGroup, layout.Reflectance)
	if err != nil {
		return nil, err
	}
	values, shape, err := flatten(rhos.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", layout.Reflectance, err)
	}
	if len(shape) != 3 || len(rhos.Dimensions) != 3 {
		return nil, fmt.Errorf("%s must be 3-D, got shape %v dims %v", layout.Reflectance, shape, rhos.Dimensions)
	}
	unpack(values, rhos.Attributes)
	c, err := model.NewSpectralCube(rhos.Dimensions, shape, values)
	if err != nil {
		return nil, err
	}

	wavelengths, err := variable(root, layout.BandGroup, layout.Wavelength)
	if err != nil {
		return nil, err
	}
	bands, _, err := flatten(wavelengths.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", layout.Wavelength, err)
	}
	bandDim := layout.Wavelength
	if len(wavelengths.Dimensions) == 1 {
		bandDim = wavelengths.Dimensions[0]
	}
	if err = c.SetCoord(layout.Wavelength, bandDim, bands); err != nil {
		return nil, err
	}

	lon, err := geolocation(root, layout.NavigationGroup, layout.Longitude)
	if err != nil {
		return nil, err
	}
	lat, err := geolocation(root, layout.NavigationGroup, layout.Latitude)
	if err != nil {
		return nil, err
	}
	c.Lon, c.Lat = lon.values, lat.values
	c.GeoDims = lon.dims
	if err = c.Validate(layout.Wavelength); err != nil {
		return nil, err
	}

	granule := &model.Granule{BandCoord: layout.Wavelength, Cube: c}
	if layout.Flags != "" {
		if granule.Flags, err = flags(root, layout.FlagsGroup, layout.Flags); err != nil {
			return nil, err
		}
	}
	attributes(root, granule)
	return granule, nil
}

type geo struct {
	dims   []string
	values []float64
}

func geolocation(root api.Group, group, name string) (geo, error) {
	v, err := variable(root, group, name)
	if err != nil {
		return geo{}, err
	}
	values, shape, err := flatten(v.Values)
	if err != nil {
		return geo{}, fmt.Errorf("%s: %v", name, err)
	}
	if len(shape) != 2 || len(v.Dimensions) != 2 {
		return geo{}, fmt.Errorf("%s must be 2-D, got shape %v", name, shape)
	}
	unpack(values, v.Attributes)
	return geo{dims: v.Dimensions, values: values}, nil
}

func flags(root api.Group, group, name string) (*model.FlagField, error) {
	v, err := variable(root, group, name)
	if err != nil {
		return nil, err
	}
	values, shape, err := flattenInts(v.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	field, err := model.NewFlagField(v.Dimensions, shape, values)
	if err != nil {
		return nil, err
	}
	if v.Attributes != nil {
		if meanings, ok := v.Attributes.Get("flag_meanings"); ok {
			field.Meanings, _ = meanings.(string)
		}
		if masks, ok := v.Attributes.Get("flag_masks"); ok {
			if field.Masks, _, err = flattenInts(masks); err != nil {
				return nil, fmt.Errorf("%s flag_masks: %v", name, err)
			}
		}
	}
	return field, nil
}

// unpack replaces fill values with NaN and applies scale_factor / add_offset in place
func unpack(values []float64, attrs api.AttributeMap) {
	if attrs == nil {
		return
	}
	fill, hasFill := math.NaN(), false
	if v, ok := attrs.Get("_FillValue"); ok {
		fill, hasFill = scalar(v)
	}
	scale, offset := 1.0, 0.0
	if v, ok := attrs.Get("scale_factor"); ok {
		if s, ok := scalar(v); ok {
			scale = s
		}
	}
	if v, ok := attrs.Get("add_offset"); ok {
		if o, ok := scalar(v); ok {
			offset = o
		}
	}
	for i, v := range values {
		if hasFill && (v == fill || float32(v) == float32(fill)) {
			values[i] = math.NaN()
			continue
		}
		values[i] = v*scale + offset
	}
}

func attributes(root api.Group, granule *model.Granule) {
	attrs := root.Attributes()
	if attrs == nil {
		return
	}
	if v, ok := attrs.Get("product_name"); ok {
		granule.ID, _ = v.(string)
	}
	if v, ok := attrs.Get("time_coverage_start"); ok {
		if s, ok := v.(string); ok {
			granule.Start, _ = model.ParseCMRTime(s)
		}
	}
	if v, ok := attrs.Get("time_coverage_end"); ok {
		if s, ok := v.(string); ok {
			granule.End, _ = model.ParseCMRTime(s)
		}
	}
}

func variable(root api.Group, group, name string) (*api.Variable, error) {
	g := root
	for _, part := range strings.Split(strings.Trim(group, "/"), "/") {
		if part == "" {
			continue
		}
		next, err := g.GetGroup(part)
		if err != nil {
			return nil, &model.NotFoundError{What: "group", Name: group}
		}
		g = next
	}
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, &model.NotFoundError{What: "variable", Name: strings.TrimPrefix(group+"/"+name, "/")}
	}
	return v, nil
}
