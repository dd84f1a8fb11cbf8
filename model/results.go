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
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// BasicGranuleResult represents the catalog metadata common to every granule
type BasicGranuleResult struct {
	ID           string
	ConceptID    string
	CollectionID string
	Geometry     interface{}
	CloudCover   float64
	StartDate    time.Time
	EndDate      time.Time
	FileFormat   FileFormat
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (br BasicGranuleResult) GeoJSONFeature() (*geojson.Feature, error) {
	if br.ID == "" {
		return nil, errors.New("granule result has no ID")
	}
	properties := map[string]interface{}{
		"cloudCover": br.CloudCover,
		"conceptId":  br.ConceptID,
		"collection": br.CollectionID,
		"startDate":  br.StartDate.UTC().Format(CMRTimeFormat),
		"endDate":    br.EndDate.UTC().Format(CMRTimeFormat),
		"fileFormat": string(br.FileFormat),
	}
	feature := geojson.NewFeature(br.Geometry, br.ID, properties)
	if br.Geometry != nil {
		feature.Bbox = feature.ForceBbox()
	}
	return feature, nil
}

// GranuleResult is a granule search hit together with its access links
type GranuleResult struct {
	BasicGranuleResult
	Links DataAccessLinks
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (gr GranuleResult) GeoJSONFeature() (*geojson.Feature, error) {
	feature, err := gr.BasicGranuleResult.GeoJSONFeature()
	if err != nil {
		return nil, err
	}
	if err = gr.Links.Apply(feature); err != nil {
		return nil, err
	}
	return feature, nil
}

// CollectionResult represents a catalog collection
type CollectionResult struct {
	ConceptID string
	ShortName string
	Version   string
	Title     string
	Geometry  interface{}
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (cr CollectionResult) GeoJSONFeature() (*geojson.Feature, error) {
	if cr.ConceptID == "" {
		return nil, errors.New("collection result has no concept ID")
	}
	return geojson.NewFeature(cr.Geometry, cr.ConceptID, map[string]interface{}{
		"shortName": cr.ShortName,
		"version":   cr.Version,
		"title":     cr.Title,
	}), nil
}

// MultiResult is a collection of results that can be rendered as a FeatureCollection
type MultiResult struct {
	FeatureCreators []GeoJSONFeatureCreator
}

// NewMultiResult creates a MultiResult
func NewMultiResult(creators []GeoJSONFeatureCreator) *MultiResult {
	return &MultiResult{FeatureCreators: creators}
}

// GeoJSONFeatureCollection implements the GeoJSONFeatureCollectionCreator interface
func (mr MultiResult) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	features := make([]*geojson.Feature, len(mr.FeatureCreators))
	for i, fc := range mr.FeatureCreators {
		feature, err := fc.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
		features[i] = feature
	}
	return geojson.NewFeatureCollection(features), nil
}
