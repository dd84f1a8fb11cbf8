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
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sampleVcap = `{
  "user-provided": [
    {"name": "earthdata-login", "tags": ["earthdata"], "credentials": {"token": "abc123", "port": 5432}},
    {"name": "pz-postgres", "tags": ["postgres"], "credentials": {"uri": "postgres://u:p@host/db"}}
  ]
}`

func TestParseVcapServices(t *testing.T) {
	// Tested code
	services, err := ParseVcapServices([]byte(sampleVcap))

	// Asserts
	assert.Nil(t, err)
	assert.ElementsMatch(t, []string{"earthdata-login", "pz-postgres"}, services.GetServiceNames())

	service := services.FindServiceByName("pz-postgres")
	assert.NotNil(t, service)
	uri, err := service.Credentials.String("uri")
	assert.Nil(t, err)
	assert.Equal(t, "postgres://u:p@host/db", uri)

	assert.Nil(t, services.FindServiceByName("missing"))
	assert.Equal(t, "earthdata-login", services.FindServiceByTag("earthdata").Name)
}

func TestVcapCredentials_Int(t *testing.T) {
	// Mock
	services, _ := ParseVcapServices([]byte(sampleVcap))
	creds := services.FindServiceByName("earthdata-login").Credentials

	// Tested code
	port, err := creds.Int("port")
	_, missingErr := creds.Int("missing")
	_, typeErr := creds.Int("token")

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, 5432, port)
	assert.NotNil(t, missingErr)
	assert.NotNil(t, typeErr)
}

func TestGetEarthdataCredentials_FromEnvironment(t *testing.T) {
	os.Setenv(EARTHDATA_TOKEN, "env-token")
	defer os.Unsetenv(EARTHDATA_TOKEN)

	creds := GetEarthdataCredentials()
	assert.Equal(t, "env-token", creds.Token)
	assert.False(t, creds.IsEmpty())
}

func TestGetEarthdataCredentials_FromVcap(t *testing.T) {
	os.Unsetenv(EARTHDATA_TOKEN)
	os.Setenv(vcapServicesEnv, sampleVcap)
	defer os.Unsetenv(vcapServicesEnv)

	creds := GetEarthdataCredentials()
	assert.Equal(t, "abc123", creds.Token)
}

func TestDurationsAndLimits(t *testing.T) {
	os.Setenv(SR_REGRID_TIMEOUT, "90s")
	os.Setenv(SR_MAX_POINTS, "not-a-number")
	defer os.Unsetenv(SR_REGRID_TIMEOUT)
	defer os.Unsetenv(SR_MAX_POINTS)

	assert.Equal(t, 90*time.Second, GetRegridTimeout())
	assert.Equal(t, DefaultMaxPoints, GetMaxPoints())

	os.Setenv(SR_MAX_POINTS, "4")
	assert.Equal(t, 4, GetMaxPoints())
}

func TestLogSimpleErr_WrapsCause(t *testing.T) {
	// Mock
	buf := &bytes.Buffer{}
	SetLogOutput(buf)
	defer SetLogOutput(os.Stderr)
	cause := errors.New("disk on fire")

	// Tested code
	err := LogSimpleErr(&BasicLogContext{}, "Failed to read granule.", cause)

	// Asserts
	assert.Equal(t, "Failed to read granule.", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, buf.String(), "disk on fire")
	assert.Contains(t, buf.String(), appName)
}

func TestHTTPError(t *testing.T) {
	SetLogOutput(&bytes.Buffer{})
	defer SetLogOutput(os.Stderr)

	req := httptest.NewRequest("GET", "/discover/X", nil)
	resp := httptest.NewRecorder()

	HTTPError(req, resp, &BasicLogContext{}, "bad bbox", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "bad bbox", resp.Body.String())
}

func TestBasicLogContext_StableSessionID(t *testing.T) {
	ctx := &BasicLogContext{}
	first := ctx.SessionID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, ctx.SessionID())
}
