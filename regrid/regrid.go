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

package regrid

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/venicegeo/bf-sr-explorer/cube"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/util"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// DefaultRadiusFactor scales the resolution into the default radius of influence
const DefaultRadiusFactor = 1.5

// Options controls the output grid and the neighbor search
type Options struct {
	// BandCoord names the wavelength coordinate of the cube
	BandCoord string
	// Resolution is the cell size in target CRS units; zero infers it from the source density
	Resolution float64
	// Radius bounds the neighbor search in target CRS units; zero means DefaultRadiusFactor * Resolution
	Radius float64
	// Timeout bounds the regrid; zero uses util.GetRegridTimeout
	Timeout time.Duration
	Workers int
}

// Regrid resamples a swath cube onto a regular grid in targetCRS by nearest
// neighbor. lon and lat are row-major over the cube's GeoDims; nil uses the
// cube's own geolocation.
func Regrid(ctx context.Context, c *model.SpectralCube, lon, lat []float64, targetCRS string, opts Options) (*model.RegriddedCube, error) {
	if lon == nil && lat == nil {
		lon, lat = c.Lon, c.Lat
	}
	if len(lon) != len(lat) {
		return nil, fmt.Errorf("longitude has %d entries, latitude has %d", len(lon), len(lat))
	}
	projector, err := NewProjector(targetCRS)
	if err != nil {
		return nil, err
	}
	bm, err := bandMajor(c, opts.BandCoord)
	if err != nil {
		return nil, err
	}
	bands := bm.Shape[0]
	plane := bm.Shape[1] * bm.Shape[2]
	if len(lon) != plane {
		return nil, fmt.Errorf("geolocation has %d entries, cube has %d pixels", len(lon), plane)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = util.GetRegridTimeout()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var space lookupSpace = planarSpace{}
	if projector.Geographic {
		space = sphereSpace{}
	}

	// Project sources and collect the extent
	xs, ys := make([]float64, 0, plane), make([]float64, 0, plane)
	points := make(sites, 0, plane)
	for i := 0; i < plane; i++ {
		if !finite(lon[i]) || !finite(lat[i]) {
			continue
		}
		x, y, err := projector.Project(lon[i], lat[i])
		if err != nil {
			continue
		}
		xs, ys = append(xs, x), append(ys, y)
		points = append(points, site{coord: space.point(x, y), index: i})
	}
	if len(points) == 0 {
		return nil, errors.New("no source pixel has a usable location in the target CRS")
	}
	xmin, xmax := bounds(xs)
	ymin, ymax := bounds(ys)

	res := opts.Resolution
	if res <= 0 {
		res = InferResolution(xmax-xmin, ymax-ymin, len(points))
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = DefaultRadiusFactor * res
	}
	width := cellCount(xmax-xmin, res)
	height := cellCount(ymax-ymin, res)

	out := &model.RegriddedCube{
		CRS:         targetCRS,
		BandCoord:   opts.BandCoord,
		Wavelengths: append([]float64{}, bm.Coords[opts.BandCoord].Values...),
		X:           make([]float64, width),
		Y:           make([]float64, height),
		Resolution:  res,
		Values:      make([]float64, bands*width*height),
	}
	// Centre the grid on the source extent
	x0 := (xmin+xmax)/2 - float64(width)*res/2
	y0 := (ymin+ymax)/2 + float64(height)*res/2
	for i := range out.X {
		out.X[i] = x0 + (float64(i)+0.5)*res
	}
	for j := range out.Y {
		out.Y[j] = y0 - (float64(j)+0.5)*res
	}

	tree := kdtree.New(points, false)
	limit := space.limit(radius)
	cells := width * height

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range rows {
				for i := 0; i < width; i++ {
					cell := j*width + i
					nearest, dist := tree.Nearest(site{coord: space.point(out.X[i], out.Y[j])})
					if nearest == nil || dist > limit {
						for b := 0; b < bands; b++ {
							out.Values[b*cells+cell] = math.NaN()
						}
						continue
					}
					src := nearest.(site).index
					for b := 0; b < bands; b++ {
						out.Values[b*cells+cell] = bm.Values[b*plane+src]
					}
				}
			}
		}()
	}

	for j := 0; j < height; j++ {
		if err := ctx.Err(); err != nil {
			close(rows)
			wg.Wait()
			return nil, fmt.Errorf("regrid stopped at row %d of %d: %w", j, height, err)
		}
		rows <- j
	}
	close(rows)
	wg.Wait()
	return out, nil
}

// InferResolution picks the cell size that gives one cell per source pixel
// over the extent of the pixel footprints. width and height span the pixel
// centres, so each side is padded by one cell before dividing.
func InferResolution(width, height float64, n int) float64 {
	if n <= 1 {
		return 1
	}
	res := math.Max(width, height) / float64(n-1)
	if res <= 0 {
		return 1
	}
	for i := 0; i < 64; i++ {
		res = math.Sqrt((width + res) * (height + res) / float64(n))
	}
	return res
}

func bandMajor(c *model.SpectralCube, bandCoord string) (*model.SpectralCube, error) {
	coord, ok := c.Coords[bandCoord]
	if !ok || len(coord.Values) == 0 {
		return nil, &model.NotFoundError{What: "coordinate", Name: bandCoord}
	}
	order := []string{coord.Dim}
	if len(c.GeoDims) == 2 {
		order = append(order, c.GeoDims...)
	} else {
		order = append(order, c.SpatialDims(coord.Dim)...)
	}
	if sameOrder(order, c.Dims) {
		return c, nil
	}
	return cube.Transpose(c, order)
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cellCount(span, res float64) int {
	return int(math.Floor(span/res+1e-6)) + 1
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
