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

package display

import (
	"math"

	"github.com/venicegeo/bf-sr-explorer/cube"
	"github.com/venicegeo/bf-sr-explorer/model"
	"gonum.org/v1/gonum/stat"
)

// DefaultBrightTarget is the mean brightness a gamma-adjusted triplet aims for
const DefaultBrightTarget = 0.3

// Triplet is a red/green/blue band stack on a shared grid, each channel row-major
type Triplet struct {
	Width       int
	Height      int
	Wavelengths [3]float64
	Channels    [3][]float64
}

// NewTriplet selects the bands nearest the red, green and blue wavelengths
func NewTriplet(g *model.RegriddedCube, wavelengths [3]float64) (Triplet, error) {
	t := Triplet{Width: g.Width(), Height: g.Height()}
	for i, w := range wavelengths {
		slice, err := cube.SelectGridBand(g, w)
		if err != nil {
			return Triplet{}, err
		}
		t.Wavelengths[i] = slice.Wavelength
		t.Channels[i] = slice.Values
	}
	return t, nil
}

func valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// GammaAdjust rescales the triplet so that its valid-cell mean maps to
// brightTarget, then clips to [0, 1]. Invalid cells come out NaN. The input is
// not modified.
func GammaAdjust(t Triplet, brightTarget float64) (Triplet, error) {
	if !(brightTarget > 0 && brightTarget < 1) {
		return Triplet{}, &model.InvalidParameterError{Name: "bright target", Value: brightTarget, Reason: "must lie strictly between 0 and 1"}
	}

	samples := []float64{}
	for _, channel := range t.Channels {
		for _, v := range channel {
			if valid(v) {
				samples = append(samples, v)
			}
		}
	}
	if len(samples) == 0 {
		return Triplet{}, &model.DegenerateInputError{Mean: math.NaN(), Reason: "no valid cells"}
	}
	mean := stat.Mean(samples, nil)
	switch {
	case math.IsNaN(mean) || math.IsInf(mean, 0):
		return Triplet{}, &model.DegenerateInputError{Mean: mean, Reason: "mean is undefined"}
	case mean <= 0:
		return Triplet{}, &model.DegenerateInputError{Mean: mean, Reason: "mean is not positive"}
	case mean == 1:
		return Triplet{}, &model.DegenerateInputError{Mean: mean, Reason: "mean is exactly 1"}
	}
	gamma := math.Log(brightTarget) / math.Log(mean)

	out := Triplet{Width: t.Width, Height: t.Height, Wavelengths: t.Wavelengths}
	for i, channel := range t.Channels {
		adjusted := make([]float64, len(channel))
		for j, v := range channel {
			if !valid(v) {
				adjusted[j] = math.NaN()
				continue
			}
			adjusted[j] = clip(math.Pow(v, gamma))
		}
		out.Channels[i] = adjusted
	}
	return out, nil
}

func clip(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
