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

package main

import (
	"errors"
	"fmt"

	"github.com/venicegeo/bf-sr-explorer/earthdata"
	"github.com/venicegeo/bf-sr-explorer/util"
	"github.com/venicegeo/geojson-go/geojson"
	cli "gopkg.in/urfave/cli.v1"
)

var searchFlags = []cli.Flag{
	cli.StringFlag{Name: "version", Usage: "collection version"},
	cli.StringFlag{Name: "bbox", Usage: "bounding box as west,south,east,north"},
	cli.StringFlag{Name: "start", Usage: "earliest granule start (RFC 3339)"},
	cli.StringFlag{Name: "end", Usage: "latest granule start (RFC 3339)"},
	cli.Float64Flag{Name: "cloud-cover", Usage: "maximum cloud cover in percent"},
	cli.IntFlag{Name: "max-results", Value: 50, Usage: "maximum number of granules"},
	cli.BoolFlag{Name: "collections", Usage: "list matching collections instead of granules"},
}

func earthdataContext() *earthdata.Context {
	return &earthdata.Context{BaseCMRURL: util.GetCMRURL(), Credentials: util.GetEarthdataCredentials()}
}

func searchAction(c *cli.Context) error {
	options := earthdata.SearchOptions{
		ShortName:  c.Args().First(),
		Version:    c.String("version"),
		StartDate:  c.String("start"),
		EndDate:    c.String("end"),
		CloudCover: c.Float64("cloud-cover"),
		MaxResults: c.Int("max-results"),
	}
	if options.ShortName == "" {
		return errors.New("search needs a collection short name")
	}
	if c.String("bbox") != "" {
		bbox, err := geojson.NewBoundingBox(c.String("bbox"))
		if err != nil {
			return fmt.Errorf("The bbox value of %v is invalid: %v", c.String("bbox"), err)
		}
		options.Bbox = bbox
	}

	context := earthdataContext()
	if c.Bool("collections") {
		collections, err := earthdata.SearchCollections(options, context)
		if err != nil {
			return err
		}
		for _, collection := range collections {
			fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\n", collection.ConceptID, collection.ShortName, collection.Version, collection.Title)
		}
		return nil
	}

	fc, err := earthdata.SearchGranulesFeatureCollection(options, context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, fc.String())
	return nil
}
