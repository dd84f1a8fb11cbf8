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

package sampler

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/venicegeo/bf-sr-explorer/cube"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/regrid"
)

// SamplePoints returns the full spectrum of the grid cell nearest each point,
// in input order. Nearest is decided independently along x and y in the
// grid's coordinate values; points in longitude/latitude are projected into
// the grid CRS first.
func SamplePoints(g *model.RegriddedCube, points []model.Point) ([]model.PointSample, error) {
	if g.Width() == 0 || g.Height() == 0 || g.Bands() == 0 {
		return nil, errors.New("cannot sample an empty grid")
	}
	projector, err := regrid.NewProjector(g.CRS)
	if err != nil {
		return nil, err
	}
	samples := make([]model.PointSample, len(points))
	for i, p := range points {
		if !finite(p.Lon) {
			return nil, &model.InvalidParameterError{Name: "longitude", Value: p.Lon, Reason: fmt.Sprintf("point %s has no finite location", p.ID)}
		}
		if !finite(p.Lat) {
			return nil, &model.InvalidParameterError{Name: "latitude", Value: p.Lat, Reason: fmt.Sprintf("point %s has no finite location", p.ID)}
		}
		x, y, err := projector.Project(p.Lon, p.Lat)
		if err != nil {
			return nil, fmt.Errorf("point %s: %v", p.ID, err)
		}
		col := cube.NearestIndex(g.X, x)
		row := cube.NearestIndex(g.Y, y)
		if col < 0 || row < 0 {
			return nil, &model.InvalidParameterError{Name: "point location", Value: y, Reason: fmt.Sprintf("point %s does not map to a grid cell", p.ID)}
		}
		samples[i] = model.PointSample{
			ID:       p.ID,
			Lon:      p.Lon,
			Lat:      p.Lat,
			Spectrum: g.Spectrum(row, col),
		}
	}
	return samples, nil
}

// Header returns the export column names: id, longitude, latitude, then one
// column per wavelength
func Header(wavelengths []float64) []string {
	header := []string{"id", "longitude", "latitude"}
	for _, w := range wavelengths {
		header = append(header, formatFloat(w))
	}
	return header
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
