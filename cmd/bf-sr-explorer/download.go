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
	cli "gopkg.in/urfave/cli.v1"
)

func downloadAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("download needs at least one granule URL")
	}
	context := earthdataContext()
	if context.Credentials.IsEmpty() {
		return errors.New("no Earthdata Login credentials: set EARTHDATA_TOKEN or EARTHDATA_USERNAME and EARTHDATA_PASSWORD")
	}
	for _, link := range c.Args() {
		filename, err := earthdata.DownloadToFile(link, c.String("dir"), context)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, filename)
	}
	return nil
}
