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

package pipeline

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/venicegeo/bf-sr-explorer/display"
	"github.com/venicegeo/bf-sr-explorer/indices"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/quality"
	"github.com/venicegeo/bf-sr-explorer/regrid"
	"github.com/venicegeo/bf-sr-explorer/sampler"
	"github.com/venicegeo/bf-sr-explorer/util"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// IndexStats summarize the finite cells of an index field
type IndexStats struct {
	Valid  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Result is everything a run produces
type Result struct {
	Granule     *model.Granule
	Mask        *model.Mask
	ValidPixels int
	Grid        *model.RegriddedCube
	RGB         display.Triplet
	RGBImage    *image.RGBA64
	Indices     map[string]*model.Field
	Stats       map[string]IndexStats
	Samples     []model.PointSample
}

// Run masks, regrids and derives the display products of a granule
func Run(ctx context.Context, job Job, g *model.Granule, context util.LogContext) (*Result, error) {
	if g == nil || g.Cube == nil {
		return nil, fmt.Errorf("no granule to process")
	}
	result := Result{Granule: g, Indices: map[string]*model.Field{}, Stats: map[string]IndexStats{}}

	source := g.Cube
	result.ValidPixels = len(source.Lon)
	if len(job.Mask.Include) > 0 || len(job.Mask.Exclude) > 0 {
		if g.Flags == nil {
			return nil, fmt.Errorf("granule %s has no quality flags to mask with", g.ID)
		}
		table, err := quality.TableFor(g.Flags)
		if err != nil {
			return nil, err
		}
		mask, err := quality.BuildMask(g.Flags, table, job.Mask.Include, job.Mask.Exclude)
		if err != nil {
			return nil, err
		}
		if source, err = quality.ApplyMask(source, mask); err != nil {
			return nil, err
		}
		result.Mask = &mask
		result.ValidPixels = mask.Count()
		util.LogInfo(context, fmt.Sprintf("Mask keeps %d of %d pixels of %s", result.ValidPixels, len(mask.Valid), g.ID))
	}

	grid, err := regrid.Regrid(ctx, source, nil, nil, job.Regrid.CRS, regrid.Options{
		BandCoord:  g.BandCoord,
		Resolution: job.Regrid.Resolution,
		Radius:     job.Regrid.Radius,
		Timeout:    job.Regrid.timeout,
	})
	if err != nil {
		return nil, err
	}
	result.Grid = grid
	util.LogInfo(context, fmt.Sprintf("Regridded %s onto %dx%d cells of %g in %s", g.ID, grid.Width(), grid.Height(), grid.Resolution, grid.CRS))

	triplet, err := display.NewTriplet(grid, job.RGB())
	if err != nil {
		return nil, err
	}
	if result.RGB, err = display.GammaAdjust(triplet, job.Display.BrightTarget); err != nil {
		return nil, err
	}
	if result.RGBImage, err = display.RGBImage(result.RGB); err != nil {
		return nil, err
	}

	lookup := indices.GridLookup{Cube: grid}
	for _, name := range job.Formulas {
		field, err := indices.Compute(name, lookup)
		if err != nil {
			return nil, err
		}
		result.Indices[field.Name] = field
		result.Stats[field.Name] = Summarize(field.Values)
	}

	if len(job.Points) > 0 {
		if result.Samples, err = sampler.SamplePoints(grid, job.QueryPoints()); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// Summarize computes IndexStats over the finite values
func Summarize(values []float64) IndexStats {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		nan := math.NaN()
		return IndexStats{Mean: nan, StdDev: nan, Min: nan, Max: nan}
	}
	mean, std := stat.MeanStdDev(finite, nil)
	if len(finite) == 1 {
		std = 0
	}
	return IndexStats{
		Valid:  len(finite),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(finite),
		Max:    floats.Max(finite),
	}
}

// IndexNames returns the computed index names in order
func (r *Result) IndexNames() []string {
	names := make([]string, 0, len(r.Indices))
	for name := range r.Indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteOutputs writes the files named by job.Output
func (r *Result) WriteOutputs(job Job) ([]string, error) {
	written := []string{}
	if err := os.MkdirAll(job.Output.Dir, 0755); err != nil {
		return written, err
	}
	path := func(name string) string { return filepath.Join(job.Output.Dir, name) }

	if job.Output.RGB != "" {
		if err := display.WriteImage(r.RGBImage, path(job.Output.RGB)); err != nil {
			return written, err
		}
		written = append(written, path(job.Output.RGB))
	}
	if job.Output.Indices != "" {
		for _, name := range r.IndexNames() {
			field := r.Indices[name]
			img, err := display.IndexImage(field, display.Viridis, 0, 0)
			if err != nil {
				return written, err
			}
			filename := path(fmt.Sprintf("%s.%s", field.Name, job.Output.Indices))
			if err = display.WriteImage(img, filename); err != nil {
				return written, err
			}
			written = append(written, filename)
		}
	}

	wavelengths := r.Grid.Wavelengths
	exports := []struct {
		name  string
		write func(*os.File) error
	}{
		{job.Output.CSV, func(f *os.File) error { return sampler.WriteCSV(f, wavelengths, r.Samples) }},
		{job.Output.GeoJSON, func(f *os.File) error { return sampler.WriteGeoJSON(f, wavelengths, r.Samples) }},
		{job.Output.Parquet, func(f *os.File) error { return sampler.WriteParquet(f, wavelengths, r.Samples) }},
	}
	for _, export := range exports {
		if export.name == "" {
			continue
		}
		if err := writeFile(path(export.name), export.write); err != nil {
			return written, err
		}
		written = append(written, path(export.name))
	}
	return written, nil
}

func writeFile(filename string, write func(*os.File) error) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return write(writer)
	}
}

// Selections pairs each sample with its values of the named formulas
func (r *Result) Selections(formulas []string) ([]Selection, error) {
	selections := make([]Selection, len(r.Samples))
	for i, sample := range r.Samples {
		selections[i] = Selection{PointSample: sample, Indices: map[string]float64{}}
		for _, name := range formulas {
			value, err := indices.Default().Evaluate(name, r.Grid.Wavelengths, sample.Spectrum)
			if err != nil {
				return nil, err
			}
			selections[i].Indices[name] = value
		}
	}
	return selections, nil
}
