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

package earthdata

import (
	"github.com/venicegeo/bf-sr-explorer/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// Context is the context for an Earthdata catalog or download operation
type Context struct {
	BaseCMRURL  string
	Credentials util.EarthdataCredentials
	sessionID   string
}

// AppName returns the application name
func (c *Context) AppName() string {
	return "bf-sr-explorer"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *Context) LogRootDir() string {
	return ""
}

// SearchOptions are the filters for a granule or collection search
type SearchOptions struct {
	ShortName string
	Version   string
	// StartDate and EndDate are CMR temporal bounds; either may be empty
	StartDate string
	EndDate   string
	Bbox      geojson.BoundingBox
	// CloudCover is the maximum cloud cover in percent; zero disables the filter
	CloudCover float64
	// MaxResults bounds the number of granules returned across pages
	MaxResults int
}

type cmrRequestInput struct {
	method   string
	inputURL string // URL may be relative or absolute based on BaseCMRURL
	accept   string
}

type ummCollectionResults struct {
	Hits  int                 `json:"hits"`
	Items []ummCollectionItem `json:"items"`
}

type ummCollectionItem struct {
	Meta ummMeta       `json:"meta"`
	UMM  ummCollection `json:"umm"`
}

type ummCollection struct {
	ShortName  string `json:"ShortName"`
	Version    string `json:"Version"`
	EntryTitle string `json:"EntryTitle"`
}

type ummGranuleResults struct {
	Hits  int              `json:"hits"`
	Items []ummGranuleItem `json:"items"`
}

type ummGranuleItem struct {
	Meta ummMeta    `json:"meta"`
	UMM  ummGranule `json:"umm"`
}

type ummMeta struct {
	ConceptID           string `json:"concept-id"`
	CollectionConceptID string `json:"collection-concept-id"`
	NativeID            string `json:"native-id"`
}

type ummGranule struct {
	GranuleUR      string            `json:"GranuleUR"`
	CloudCover     *float64          `json:"CloudCover"`
	TemporalExtent ummTemporalExtent `json:"TemporalExtent"`
	SpatialExtent  ummSpatialExtent  `json:"SpatialExtent"`
	RelatedUrls    []ummRelatedURL   `json:"RelatedUrls"`
	DataGranule    ummDataGranule    `json:"DataGranule"`
}

type ummTemporalExtent struct {
	RangeDateTime struct {
		BeginningDateTime string `json:"BeginningDateTime"`
		EndingDateTime    string `json:"EndingDateTime"`
	} `json:"RangeDateTime"`
	SingleDateTime string `json:"SingleDateTime"`
}

type ummSpatialExtent struct {
	HorizontalSpatialDomain struct {
		Geometry struct {
			BoundingRectangles []ummBoundingRectangle `json:"BoundingRectangles"`
			GPolygons          []ummGPolygon          `json:"GPolygons"`
		} `json:"Geometry"`
	} `json:"HorizontalSpatialDomain"`
}

type ummBoundingRectangle struct {
	West  float64 `json:"WestBoundingCoordinate"`
	East  float64 `json:"EastBoundingCoordinate"`
	North float64 `json:"NorthBoundingCoordinate"`
	South float64 `json:"SouthBoundingCoordinate"`
}

type ummGPolygon struct {
	Boundary struct {
		Points []struct {
			Longitude float64 `json:"Longitude"`
			Latitude  float64 `json:"Latitude"`
		} `json:"Points"`
	} `json:"Boundary"`
}

type ummRelatedURL struct {
	URL  string `json:"URL"`
	Type string `json:"Type"`
}

type ummDataGranule struct {
	ArchiveAndDistributionInformation []struct {
		Name   string `json:"Name"`
		Format string `json:"Format"`
	} `json:"ArchiveAndDistributionInformation"`
}
