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

package util

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables
const (
	CMR_URL            = "CMR_URL"
	EARTHDATA_TOKEN    = "EARTHDATA_TOKEN"
	EARTHDATA_USERNAME = "EARTHDATA_USERNAME"
	EARTHDATA_PASSWORD = "EARTHDATA_PASSWORD"
	SR_HTTP_TIMEOUT    = "SR_HTTP_TIMEOUT"
	SR_REGRID_TIMEOUT  = "SR_REGRID_TIMEOUT"
	SR_MAX_POINTS      = "SR_MAX_POINTS"
	SR_SESSION_JOB     = "SR_SESSION_JOB"
	SR_LOG_LEVEL       = "SR_LOG_LEVEL"
)

const defaultCMRURL = "https://cmr.earthdata.nasa.gov/search/"

// earthdataService is the user-provided VCAP service holding Earthdata Login credentials
const earthdataService = "earthdata-login"

// DefaultRegridTimeout bounds a single regrid call when SR_REGRID_TIMEOUT is unset
const DefaultRegridTimeout = 5 * time.Minute

// DefaultMaxPoints is the number of selected points a session keeps
const DefaultMaxPoints = 10

// GetCMRURL returns the base URL of the Common Metadata Repository search API
func GetCMRURL() string {
	cmrURL, ok := os.LookupEnv(CMR_URL)
	if !ok || cmrURL == "" {
		LogInfo(&BasicLogContext{}, "Did not get CMR URL from the environment. Using default: "+defaultCMRURL)
		cmrURL = defaultCMRURL
	}
	return cmrURL
}

// EarthdataCredentials holds whatever Earthdata Login material is configured
type EarthdataCredentials struct {
	Token    string
	Username string
	Password string
}

// IsEmpty returns true if there is nothing to authenticate with
func (c EarthdataCredentials) IsEmpty() bool {
	return c.Token == "" && (c.Username == "" || c.Password == "")
}

// GetEarthdataCredentials reads Earthdata Login credentials from the environment,
// falling back to the earthdata-login VCAP service
func GetEarthdataCredentials() EarthdataCredentials {
	creds := EarthdataCredentials{
		Token:    os.Getenv(EARTHDATA_TOKEN),
		Username: os.Getenv(EARTHDATA_USERNAME),
		Password: os.Getenv(EARTHDATA_PASSWORD),
	}
	if !creds.IsEmpty() {
		return creds
	}

	services, err := GetVcapServices()
	if err == nil {
		if service := services.FindServiceByName(earthdataService); service != nil {
			creds.Token, _ = service.Credentials.String("token")
			creds.Username, _ = service.Credentials.String("username")
			creds.Password, _ = service.Credentials.String("password")
		}
	}
	if creds.IsEmpty() {
		LogAlert(&BasicLogContext{}, "Did not get Earthdata Login credentials from the environment. Downloads will be anonymous.")
	}
	return creds
}

// GetHTTPTimeout returns the timeout for outbound HTTP requests
func GetHTTPTimeout() time.Duration {
	return durationFromEnv(SR_HTTP_TIMEOUT, defaultHTTPTimeout)
}

// GetRegridTimeout returns the timeout applied around each regrid call
func GetRegridTimeout() time.Duration {
	return durationFromEnv(SR_REGRID_TIMEOUT, DefaultRegridTimeout)
}

// GetMaxPoints returns the number of selected points a session keeps
func GetMaxPoints() int {
	raw, ok := os.LookupEnv(SR_MAX_POINTS)
	if !ok {
		return DefaultMaxPoints
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		LogAlert(&BasicLogContext{}, fmt.Sprintf("Invalid %s value '%s'. Using default: %d", SR_MAX_POINTS, raw, DefaultMaxPoints))
		return DefaultMaxPoints
	}
	return n
}

// GetSessionJobPath returns the job file used to seed the interactive session, if any
func GetSessionJobPath() string {
	path, ok := os.LookupEnv(SR_SESSION_JOB)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get a session job from the environment. Point selection will not be available.")
	}
	return path
}

// GetLogLevel returns the configured log level name
func GetLogLevel() string {
	if level, ok := os.LookupEnv(SR_LOG_LEVEL); ok {
		return level
	}
	return "info"
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		LogAlert(&BasicLogContext{}, fmt.Sprintf("Invalid %s value '%s'. Using default: %v", key, raw, fallback))
		return fallback
	}
	return d
}
