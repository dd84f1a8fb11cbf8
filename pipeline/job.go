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
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/venicegeo/bf-sr-explorer/display"
	"github.com/venicegeo/bf-sr-explorer/indices"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/util"
	"gopkg.in/yaml.v2"
)

/* Example job file ...

granule: PACE_OCI.20240501T120000.L2.SFREFL.V2.nc
mask:
  include: []
  exclude: [CLDICE, HIGLINT, ATMFAIL]
regrid:
  crs: EPSG:4326
  resolution: 0.01
  timeout: 2m
display:
  rgb: [645, 555, 368]
  brighttarget: 0.3
formulas: [CIRE, CAR]
points:
  - {lon: -70.1, lat: 40.2}
output:
  dir: out
  rgb: rgb.png
  csv: samples.csv

*/

// MaskOptions are the quality flag rules
type MaskOptions struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// RegridOptions control the output grid
type RegridOptions struct {
	CRS        string  `yaml:"crs"`
	Resolution float64 `yaml:"resolution"`
	Radius     float64 `yaml:"radius"`
	Timeout    string  `yaml:"timeout"`

	// Values we derive
	timeout time.Duration
}

// DisplayOptions control the RGB quicklook
type DisplayOptions struct {
	RGB          []float64 `yaml:"rgb"`
	BrightTarget float64   `yaml:"brighttarget"`
}

// PointSpec is a query point given in a job file
type PointSpec struct {
	ID  string  `yaml:"id"`
	Lon float64 `yaml:"lon"`
	Lat float64 `yaml:"lat"`
}

// OutputOptions name the files a run writes, relative to Dir. Empty names are skipped.
type OutputOptions struct {
	Dir     string `yaml:"dir"`
	RGB     string `yaml:"rgb"`
	Indices string `yaml:"indices"` // extension of per-index images, e.g. png
	CSV     string `yaml:"csv"`
	GeoJSON string `yaml:"geojson"`
	Parquet string `yaml:"parquet"`
}

// Job describes one processing run over a granule
type Job struct {
	Granule   string         `yaml:"granule"`
	Mask      MaskOptions    `yaml:"mask"`
	Regrid    RegridOptions  `yaml:"regrid"`
	Display   DisplayOptions `yaml:"display"`
	Formulas  []string       `yaml:"formulas"`
	Points    []PointSpec    `yaml:"points"`
	MaxPoints int            `yaml:"maxpoints"`
	Output    OutputOptions  `yaml:"output"`
}

// Default display wavelengths in nm
var (
	DefaultRGB      = []float64{645, 555, 368}
	DefaultFormulas = []string{indices.CIRE.Name, indices.CAR.Name}
)

// NewJob returns a job with every option at its default
func NewJob() Job {
	return Job{
		Mask:      MaskOptions{Include: []string{}, Exclude: []string{}},
		Regrid:    RegridOptions{CRS: "EPSG:4326"},
		Display:   DisplayOptions{RGB: append([]float64{}, DefaultRGB...), BrightTarget: display.DefaultBrightTarget},
		Formulas:  append([]string{}, DefaultFormulas...),
		MaxPoints: util.GetMaxPoints(),
		Output:    OutputOptions{Dir: "."},
	}
}

// LoadJob reads and finalizes a YAML job file
func LoadJob(filename string) (Job, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return NewJob(), fmt.Errorf("read '%s': %v", filename, err)
	}
	job, err := ParseJob(contents)
	if err != nil {
		return job, fmt.Errorf("parse '%s': %v", filename, err)
	}
	return job, nil
}

// ParseJob decodes and finalizes a YAML job
func ParseJob(contents []byte) (Job, error) {
	job := NewJob()
	if err := yaml.Unmarshal(contents, &job); err != nil {
		return job, err
	}
	return job, job.Finalize()
}

// Finalize fills defaults and checks the job
func (j *Job) Finalize() error {
	if j.Regrid.CRS == "" {
		j.Regrid.CRS = "EPSG:4326"
	}
	j.Regrid.timeout = util.GetRegridTimeout()
	if j.Regrid.Timeout != "" {
		timeout, err := time.ParseDuration(j.Regrid.Timeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("bad regrid timeout '%s'", j.Regrid.Timeout)
		}
		j.Regrid.timeout = timeout
	}
	if j.Regrid.Resolution < 0 {
		return &model.InvalidParameterError{Name: "resolution", Value: j.Regrid.Resolution, Reason: "must not be negative"}
	}
	if j.Regrid.Radius < 0 {
		return &model.InvalidParameterError{Name: "radius", Value: j.Regrid.Radius, Reason: "must not be negative"}
	}

	if len(j.Display.RGB) == 0 {
		j.Display.RGB = append([]float64{}, DefaultRGB...)
	}
	if len(j.Display.RGB) != 3 {
		return fmt.Errorf("rgb needs 3 wavelengths, got %v", j.Display.RGB)
	}
	if j.Display.BrightTarget == 0 {
		j.Display.BrightTarget = display.DefaultBrightTarget
	}
	if !(j.Display.BrightTarget > 0 && j.Display.BrightTarget < 1) {
		return &model.InvalidParameterError{Name: "bright target", Value: j.Display.BrightTarget, Reason: "must lie strictly between 0 and 1"}
	}

	for _, name := range j.Formulas {
		if _, err := indices.Default().Lookup(name); err != nil {
			return err
		}
	}

	if j.MaxPoints <= 0 {
		j.MaxPoints = util.GetMaxPoints()
	}
	if len(j.Points) > j.MaxPoints {
		return fmt.Errorf("%d points given, at most %d allowed", len(j.Points), j.MaxPoints)
	}
	for i := range j.Points {
		if j.Points[i].ID == "" {
			j.Points[i].ID = pointID(i + 1)
		}
	}
	if j.Output.Dir == "" {
		j.Output.Dir = "."
	}
	if j.Output.RGB != "" && !display.Supported(extension(j.Output.RGB)) {
		return errors.New("rgb output must be a .png or .tif file")
	}
	if j.Output.Indices != "" && !display.Supported(j.Output.Indices) {
		return fmt.Errorf("unsupported index image format '%s'", j.Output.Indices)
	}
	return nil
}

// RGB returns the display wavelengths as a fixed triple
func (j Job) RGB() [3]float64 {
	return [3]float64{j.Display.RGB[0], j.Display.RGB[1], j.Display.RGB[2]}
}

// QueryPoints converts the job's point specs
func (j Job) QueryPoints() []model.Point {
	points := make([]model.Point, len(j.Points))
	for i, p := range j.Points {
		points[i] = model.Point{ID: p.ID, Lon: p.Lon, Lat: p.Lat}
	}
	return points
}

func pointID(n int) string {
	return fmt.Sprintf("p%d", n)
}

func extension(filename string) string {
	return strings.TrimPrefix(filepath.Ext(filename), ".")
}
