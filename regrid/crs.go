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
	"errors"
	"math"
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/venicegeo/bf-sr-explorer/model"
)

// GeographicProj is the proj4 definition of the WGS84 longitude/latitude system
const GeographicProj = "+proj=longlat +datum=WGS84 +no_defs"

// WebMercatorProj is the proj4 definition of the spherical web mercator system
const WebMercatorProj = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"

var crsAliases = map[string]string{
	"EPSG:4326":   GeographicProj,
	"WGS84":       GeographicProj,
	"LONGLAT":     GeographicProj,
	"EPSG:3857":   WebMercatorProj,
	"EPSG:3785":   WebMercatorProj,
	"EPSG:900913": WebMercatorProj,
}

// Projector maps longitude/latitude into a target coordinate reference system
type Projector struct {
	Name       string
	Geographic bool
	transform  proj.Transformer
}

// NewProjector resolves a CRS name (EPSG alias or proj4 string)
func NewProjector(crs string) (*Projector, error) {
	definition := strings.TrimSpace(crs)
	if alias, ok := crsAliases[strings.ToUpper(definition)]; ok {
		definition = alias
	}
	if !strings.HasPrefix(definition, "+") {
		return nil, &model.CRSError{CRS: crs, Err: errors.New("expected an EPSG alias or a proj4 definition")}
	}
	dst, err := proj.Parse(definition)
	if err != nil {
		return nil, &model.CRSError{CRS: crs, Err: err}
	}
	p := &Projector{Name: crs, Geographic: dst.Name == "longlat"}
	if p.Geographic {
		return p, nil
	}
	src, err := proj.Parse(GeographicProj)
	if err != nil {
		return nil, &model.CRSError{CRS: GeographicProj, Err: err}
	}
	if p.transform, err = src.NewTransform(dst); err != nil {
		return nil, &model.CRSError{CRS: crs, Err: err}
	}
	return p, nil
}

// Project maps a longitude/latitude pair into the target system
func (p *Projector) Project(lon, lat float64) (float64, float64, error) {
	if p.Geographic {
		return lon, lat, nil
	}
	x, y, err := p.transform(lon, lat)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, errors.New("projection produced a non-finite coordinate")
	}
	return x, y, nil
}
