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
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// site is a source pixel position in lookup space
type site struct {
	coord []float64
	index int
}

// Compare implements kdtree.Comparable
func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.coord[d] - c.(site).coord[d]
}

// Dims implements kdtree.Comparable
func (s site) Dims() int {
	return len(s.coord)
}

// Distance implements kdtree.Comparable, returning the squared euclidean distance
func (s site) Distance(c kdtree.Comparable) float64 {
	o := c.(site)
	var sum float64
	for i, v := range s.coord {
		d := v - o.coord[i]
		sum += d * d
	}
	return sum
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable {
	return s[i]
}

func (s sites) Len() int {
	return len(s)
}

func (s sites) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}

func (s sites) Pivot(d kdtree.Dim) int {
	return plane{sites: s, dim: d}.pivot()
}

type plane struct {
	sites
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.sites[i].coord[p.dim] < p.sites[j].coord[p.dim]
}

func (p plane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}

func (p plane) pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// lookupSpace places grid positions in the metric used for neighbor search
type lookupSpace interface {
	point(x, y float64) []float64
	// limit converts a radius in grid units to a squared lookup distance
	limit(radius float64) float64
}

type planarSpace struct{}

func (planarSpace) point(x, y float64) []float64 {
	return []float64{x, y}
}

func (planarSpace) limit(radius float64) float64 {
	return radius * radius
}

// sphereSpace measures chord length on the unit sphere, so longitude wraps
// and converging meridians are handled
type sphereSpace struct{}

func (sphereSpace) point(lon, lat float64) []float64 {
	lambda, phi := lon*math.Pi/180, lat*math.Pi/180
	return []float64{math.Cos(phi) * math.Cos(lambda), math.Cos(phi) * math.Sin(lambda), math.Sin(phi)}
}

func (sphereSpace) limit(radius float64) float64 {
	theta := math.Min(radius*math.Pi/180, math.Pi)
	chord := 2 * math.Sin(theta/2)
	return chord * chord
}
