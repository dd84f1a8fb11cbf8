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
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

const version = "0.1.0"

var commands = cli.Commands{
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the bf-sr-explorer webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the explorer CLI",
		Action:  versionAction,
	},
	cli.Command{
		Name:      "search",
		Usage:     "Search the CMR catalog for granules and print them as GeoJSON",
		ArgsUsage: "<short name>",
		Flags:     searchFlags,
		Action:    searchAction,
	},
	cli.Command{
		Name:      "download",
		Aliases:   []string{"d"},
		Usage:     "Download granules with Earthdata Login credentials",
		ArgsUsage: "<url> [<url>...]",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "dir", Value: ".", Usage: "directory to write granules to"},
		},
		Action: downloadAction,
	},
	cli.Command{
		Name:      "process",
		Aliases:   []string{"p"},
		Usage:     "Mask, regrid and sample a granule as described by a job file",
		ArgsUsage: "<job.yaml>",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "granule", Usage: "granule file, overriding the job's"},
			cli.BoolFlag{Name: "store", Usage: "save the granule and its samples to the database"},
		},
		Action: processAction,
	},
	cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Update database schema",
		Action:  migrateDatabaseAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "bf-sr-explorer"
	app.Usage = "Explore surface reflectance granules"
	app.Version = version
	app.Commands = commands
	return
}

func versionAction(c *cli.Context) {
	fmt.Fprintln(c.App.Writer, "bf-sr-explorer version", version)
}
