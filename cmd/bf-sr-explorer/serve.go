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
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-sr-explorer/earthdata"
	"github.com/venicegeo/bf-sr-explorer/granule"
	"github.com/venicegeo/bf-sr-explorer/pipeline"
	"github.com/venicegeo/bf-sr-explorer/util"
	cli "gopkg.in/urfave/cli.v1"
)

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

func createRouter(ctx util.LogContext, session *pipeline.Session) (*mux.Router, error) {
	router := mux.NewRouter()
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("Hi"))
	})
	router.Handle("/discover/{shortName}", earthdata.NewDiscoverHandler())

	if session == nil {
		util.LogAlert(ctx, "No session, not mounting the /session routes")
		return router, nil
	}
	router.Handle("/session/points", pipeline.PointsHandler{Session: session}).Methods("GET", "POST")
	router.Handle("/session/points.geojson", pipeline.PointsGeoJSONHandler{Session: session}).Methods("GET")
	router.Handle("/session/index/{formula}", pipeline.IndexHandler{Session: session}).Methods("GET")
	return router, nil
}

// openSession processes the job named by SR_SESSION_JOB and starts a session over it
func openSession(ctx util.LogContext) (*pipeline.Session, error) {
	path := util.GetSessionJobPath()
	if path == "" {
		return nil, nil
	}
	job, err := pipeline.LoadJob(path)
	if err != nil {
		return nil, err
	}
	g, err := openGranuleFunc(job.Granule, granule.DefaultLayout, ctx)
	if err != nil {
		return nil, err
	}
	result, err := pipeline.Run(context.Background(), job, g, ctx)
	if err != nil {
		return nil, err
	}
	session, err := pipeline.NewSession(result, job.Formulas, job.MaxPoints, ctx)
	if err != nil {
		return nil, err
	}
	go session.Run(context.Background())
	util.LogInfo(ctx, fmt.Sprintf("Session open over granule %s", g.ID))
	return session, nil
}

func serveAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})

	portStr := getPortStr()

	session, err := openSession(logContext)
	if err != nil {
		util.LogSimpleErr(logContext, "Failed to open session: ", err)
		return
	}

	if router, err := createRouter(logContext, session); err == nil {
		launchServerFunc(portStr, router)
	} else {
		util.LogSimpleErr(logContext, "Failed to create router: ", err)
	}
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
