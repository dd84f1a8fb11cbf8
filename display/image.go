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
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/venicegeo/bf-sr-explorer/model"
	"gonum.org/v1/gonum/stat"
)

// RGBImage renders a triplet with channels in [0, 1]. Cells with any NaN
// channel are transparent.
func RGBImage(t Triplet) (*image.RGBA64, error) {
	for i, channel := range t.Channels {
		if len(channel) != t.Width*t.Height {
			return nil, fmt.Errorf("channel %d has %d cells, grid has %d", i, len(channel), t.Width*t.Height)
		}
	}
	img := image.NewRGBA64(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			cell := y*t.Width + x
			r, g, b := t.Channels[0][cell], t.Channels[1][cell], t.Channels[2][cell]
			if math.IsNaN(r) || math.IsNaN(g) || math.IsNaN(b) {
				img.SetRGBA64(x, y, color.RGBA64{})
				continue
			}
			img.SetRGBA64(x, y, color.RGBA64{R: to16(r), G: to16(g), B: to16(b), A: 0xffff})
		}
	}
	return img, nil
}

func to16(v float64) uint16 {
	return uint16(math.Round(clip(v) * 0xffff))
}

// ColorStop places a color at a position in [0, 1] along a colormap
type ColorStop struct {
	Position float64
	Color    colorful.Color
}

// Colormap is a piecewise color ramp blended in CIE L*a*b*
type Colormap []ColorStop

// NewColormap parses hex colors spaced evenly along the ramp
func NewColormap(hexes ...string) (Colormap, error) {
	if len(hexes) < 2 {
		return nil, errors.New("a colormap needs at least two colors")
	}
	cm := make(Colormap, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colormap color %q: %v", h, err)
		}
		cm[i] = ColorStop{Position: float64(i) / float64(len(hexes)-1), Color: c}
	}
	return cm, nil
}

// Viridis approximates the viridis ramp, the default for index images
var Viridis = mustColormap("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725")

func mustColormap(hexes ...string) Colormap {
	cm, err := NewColormap(hexes...)
	if err != nil {
		panic(err)
	}
	return cm
}

// At returns the color at position t, clamped to the ends of the ramp
func (cm Colormap) At(t float64) colorful.Color {
	if t <= cm[0].Position {
		return cm[0].Color
	}
	for i := 1; i < len(cm); i++ {
		lo, hi := cm[i-1], cm[i]
		if t <= hi.Position {
			return lo.Color.BlendLab(hi.Color, (t-lo.Position)/(hi.Position-lo.Position)).Clamped()
		}
	}
	return cm[len(cm)-1].Color
}

// IndexImage renders a field through a colormap between lo and hi. When lo
// equals hi the 2nd and 98th percentiles of the finite values are used.
// Non-finite cells are transparent.
func IndexImage(f *model.Field, cm Colormap, lo, hi float64) (*image.RGBA, error) {
	if len(f.Values) != f.Width()*f.Height() {
		return nil, fmt.Errorf("field %s has %d cells, grid has %d", f.Name, len(f.Values), f.Width()*f.Height())
	}
	if cm == nil {
		cm = Viridis
	}
	if lo == hi {
		lo, hi = Stretch(f.Values, 0.02, 0.98)
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width(), f.Height()))
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			v := f.At(y, x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				img.SetRGBA(x, y, color.RGBA{})
				continue
			}
			t := 0.5
			if hi > lo {
				t = (v - lo) / (hi - lo)
			}
			r, g, b := cm.At(t).RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return img, nil
}

// Stretch returns the values at the given lower and upper quantiles of the finite entries
func Stretch(values []float64, lower, upper float64) (float64, float64) {
	finite := []float64{}
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0
	}
	sort.Float64s(finite)
	at := func(q float64) float64 {
		return stat.Quantile(math.Max(0, math.Min(1, q)), stat.Empirical, finite, nil)
	}
	return at(lower), at(upper)
}
