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
	"net/http"
)

// Error carries a detailed message for the log and a simple one for the user
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
	Err        error
}

func (err Error) Error() string {
	if err.SimpleMsg != "" {
		return err.SimpleMsg
	}
	return err.LogMsg
}

// Unwrap returns the underlying cause, if any
func (err Error) Unwrap() error {
	return err.Err
}

// Log writes the detailed form of the error to the log and returns the error
func (err Error) Log(ctx LogContext, prefix string) error {
	msg := err.LogMsg
	if msg == "" {
		msg = err.SimpleMsg
	}
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	if err.URL != "" {
		msg = fmt.Sprintf("%s\nURL: %s", msg, err.URL)
	}
	if err.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s\nStatus: %d", msg, err.HTTPStatus)
	}
	if err.Response != "" {
		msg = fmt.Sprintf("%s\nResponse: %s", msg, err.Response)
	}
	l := contextLogger(ctx)
	l.Error().Msg(msg)
	return err
}

// HTTPErr is an error with an associated HTTP status
type HTTPErr struct {
	Status  int
	Message string
}

func (err HTTPErr) Error() string {
	return fmt.Sprintf("%d: %s", err.Status, err.Message)
}

// HTTPError writes an error response and audits it
func HTTPError(request *http.Request, writer http.ResponseWriter, ctx LogContext, message string, status int) {
	LogAudit(ctx, LogAuditInput{
		Actor:    request.URL.String(),
		Action:   request.Method + " response",
		Actee:    request.RemoteAddr,
		Message:  message,
		Severity: WARNING,
	})
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer.WriteHeader(status)
	writer.Write([]byte(message))
}
