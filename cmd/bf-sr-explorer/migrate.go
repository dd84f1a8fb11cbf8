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
	"log"

	_ "github.com/lib/pq"
	"github.com/pressly/goose"
	cli "gopkg.in/urfave/cli.v1"

	_ "github.com/venicegeo/bf-sr-explorer/migrations"
	"github.com/venicegeo/bf-sr-explorer/util"
)

func migrateDatabaseAction(*cli.Context) {
	ctx := &util.BasicLogContext{}
	database, err := getDbConnectionFunc(ctx)
	if err != nil {
		log.Fatal("Could not open database connection.")
	}
	defer database.Close()

	if err = goose.Run("up", database, "."); err != nil {
		util.LogSimpleErr(ctx, "Migration failed.", err)
		return
	}
	util.LogInfo(ctx, "Database schema is up to date")
}
