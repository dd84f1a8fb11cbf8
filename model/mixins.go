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

package model

import (
	"errors"

	"github.com/venicegeo/geojson-go/geojson"
)

// DataAccessLinks is a mixin containing the download and browse links of a granule
type DataAccessLinks struct {
	Data   []string
	Browse []string
}

// Apply implements the GeoJSONFeatureMixin interface
func (dl DataAccessLinks) Apply(feature *geojson.Feature) error {
	if feature == nil {
		return errors.New("no feature to apply links to")
	}
	if feature.Properties == nil {
		feature.Properties = map[string]interface{}{}
	}
	feature.Properties["links"] = map[string]interface{}{
		"data":   nonNil(dl.Data),
		"browse": nonNil(dl.Browse),
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
