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
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/venicegeo/bf-sr-explorer/granule"
	"github.com/venicegeo/bf-sr-explorer/pipeline"
	"github.com/venicegeo/bf-sr-explorer/store"
	"github.com/venicegeo/bf-sr-explorer/util"
	cli "gopkg.in/urfave/cli.v1"
)

var openGranuleFunc = granule.Open

func processAction(c *cli.Context) error {
	ctx := &util.BasicLogContext{}
	if c.NArg() != 1 {
		return errors.New("process needs exactly one job file")
	}
	job, err := pipeline.LoadJob(c.Args().First())
	if err != nil {
		return err
	}
	if c.String("granule") != "" {
		job.Granule = c.String("granule")
	}
	if job.Granule == "" {
		return errors.New("no granule given in the job or on the command line")
	}

	g, err := openGranuleFunc(job.Granule, granule.DefaultLayout, ctx)
	if err != nil {
		return err
	}
	result, err := pipeline.Run(context.Background(), job, g, ctx)
	if err != nil {
		return err
	}
	written, err := result.WriteOutputs(job)
	if err != nil {
		return err
	}
	for _, filename := range written {
		fmt.Fprintln(c.App.Writer, filename)
	}
	for _, name := range result.IndexNames() {
		stats := result.Stats[name]
		util.LogInfo(ctx, fmt.Sprintf("%s: %d valid cells, mean %g, range [%g, %g]", name, stats.Valid, stats.Mean, stats.Min, stats.Max))
	}

	if !c.Bool("store") {
		return nil
	}
	return storeResult(ctx, job, result)
}

func storeResult(ctx util.LogContext, job pipeline.Job, result *pipeline.Result) error {
	selections, err := result.Selections(job.Formulas)
	if err != nil {
		return err
	}
	database, err := getDbConnectionFunc(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	record := store.NewGranuleRecord(result)
	err = store.WithTx(database, func(tx *sql.Tx) error {
		if err := store.SaveGranule(tx, record); err != nil {
			return err
		}
		return store.SaveSamples(tx, record.ID, selections)
	})
	if err != nil {
		return util.LogSimpleErr(ctx, "Failed to store results.", err)
	}
	util.LogInfo(ctx, fmt.Sprintf("Stored %s with %d samples", record.ID, len(selections)))
	return nil
}
