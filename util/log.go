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
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// appName is reported by BasicLogContext and the package contexts
const appName = "bf-sr-explorer"

// LogContext identifies the caller of a log function
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a LogContext for code paths without a request or session
type BasicLogContext struct {
	sessionID string
}

// AppName returns the application name
func (ctx *BasicLogContext) AppName() string {
	return appName
}

// SessionID returns a Session ID, creating one if needed
func (ctx *BasicLogContext) SessionID() string {
	if ctx.sessionID == "" {
		ctx.sessionID, _ = PsuUUID()
	}
	return ctx.sessionID
}

// LogRootDir returns an empty string
func (ctx *BasicLogContext) LogRootDir() string {
	return ""
}

// Severity is the severity attached to an audit message
type Severity string

// Audit severities
const (
	DEBUG   Severity = "debug"
	INFO    Severity = "info"
	NOTICE  Severity = "notice"
	WARNING Severity = "warning"
	ERROR   Severity = "error"
)

// LogAuditInput describes a single audited action
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

var (
	loggerMu sync.RWMutex
	logger   = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// SetLogOutput redirects all log output, e.g. to a buffer in tests
func SetLogOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// SetLogLevel sets the global level from a name such as "debug" or "warn"
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func contextLogger(ctx LogContext) zerolog.Logger {
	if ctx == nil {
		ctx = &BasicLogContext{}
	}
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger.With().Str("app", ctx.AppName()).Str("session", ctx.SessionID()).Logger()
}

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	l := contextLogger(ctx)
	l.Info().Msg(message)
}

// LogAlert logs a condition that needs attention but does not stop processing
func LogAlert(ctx LogContext, message string) {
	l := contextLogger(ctx)
	l.Warn().Msg(message)
}

// LogSimpleErr logs the message together with the underlying error and
// returns an Error that reports only the simple message to callers
func LogSimpleErr(ctx LogContext, message string, err error) error {
	l := contextLogger(ctx)
	l.Error().Err(err).Msg(message)
	logMsg := message
	if err != nil {
		logMsg = message + " " + err.Error()
	}
	return Error{LogMsg: logMsg, SimpleMsg: message, Err: err}
}

// LogAudit records who did what to whom
func LogAudit(ctx LogContext, input LogAuditInput) {
	l := contextLogger(ctx)
	var event *zerolog.Event
	switch input.Severity {
	case DEBUG:
		event = l.Debug()
	case WARNING:
		event = l.Warn()
	case ERROR:
		event = l.Error()
	default:
		event = l.Info()
	}
	event.Str("actor", input.Actor).
		Str("action", input.Action).
		Str("actee", input.Actee).
		Msg(input.Message)
}
