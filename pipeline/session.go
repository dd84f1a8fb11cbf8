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

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/venicegeo/bf-sr-explorer/indices"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/sampler"
	"github.com/venicegeo/bf-sr-explorer/util"
)

// ErrSessionClosed is returned by requests made after the session loop exits
var ErrSessionClosed = errors.New("session is closed")

// PointSelected is a location picked on the quicklook
type PointSelected struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Selection is one point held by a session with its index values
type Selection struct {
	model.PointSample
	Indices map[string]float64
}

// SessionStatus is a consistent copy of a session's state
type SessionStatus struct {
	GranuleID   string
	Wavelengths []float64
	Formulas    []string
	MaxPoints   int
	Selections  []Selection
	Rejected    int
}

// Samples returns the selected point samples in selection order
func (s SessionStatus) Samples() []model.PointSample {
	samples := make([]model.PointSample, len(s.Selections))
	for i, sel := range s.Selections {
		samples[i] = sel.PointSample
	}
	return samples
}

type selectRequest struct {
	event    PointSelected
	response chan selectResponse
}

type selectResponse struct {
	selection Selection
	err       error
}

// Session holds a processed result and the points selected on it. All state
// is owned by the Run loop; other goroutines talk to it over channels.
type Session struct {
	context   util.LogContext
	result    *Result
	registry  *indices.Registry
	formulas  []string
	maxPoints int

	selectChan chan selectRequest
	statusChan chan chan SessionStatus
	stopChan   chan struct{}
	doneChan   chan struct{}

	count      int
	selections []Selection
	rejected   int
}

// NewSession initializes a session over result. At most maxPoints selections
// are kept; the oldest is dropped first.
func NewSession(result *Result, formulas []string, maxPoints int, context util.LogContext) (*Session, error) {
	if result == nil || result.Grid == nil {
		return nil, errors.New("session needs a regridded result")
	}
	if maxPoints <= 0 {
		return nil, &model.InvalidParameterError{Name: "max points", Value: float64(maxPoints), Reason: "must be positive"}
	}
	registry := indices.Default()
	for _, name := range formulas {
		if _, err := registry.Lookup(name); err != nil {
			return nil, err
		}
	}
	return &Session{
		context:    context,
		result:     result,
		registry:   registry,
		formulas:   append([]string{}, formulas...),
		maxPoints:  maxPoints,
		selectChan: make(chan selectRequest),
		statusChan: make(chan chan SessionStatus, 10),
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}, nil
}

// Run serves selections and status requests until ctx is done or Close is called.
// Note: this is blocking
func (s *Session) Run(ctx context.Context) {
	defer close(s.doneChan)
	util.LogInfo(s.context, "Session loop started")
	for {
		select {
		case <-ctx.Done():
			util.LogInfo(s.context, "Session loop stopped: "+ctx.Err().Error())
			return
		case <-s.stopChan:
			util.LogInfo(s.context, "Session loop closed")
			return
		case req := <-s.selectChan:
			selection, err := s.add(req.event)
			req.response <- selectResponse{selection: selection, err: err}
		case respChan := <-s.statusChan:
			select {
			case respChan <- s.status():
			default:
				//no op
			}
		}
	}
}

// Close stops the Run loop
func (s *Session) Close() {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
}

// IndexField returns the named index over the session grid, computing it
// when the run did not
func (s *Session) IndexField(name string) (*model.Field, error) {
	formula, err := s.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	if field, ok := s.result.Indices[formula.Name]; ok {
		return field, nil
	}
	return s.registry.Compute(formula.Name, indices.GridLookup{Cube: s.result.Grid})
}

// Select samples the grid at a location and adds it to the session
func (s *Session) Select(ctx context.Context, event PointSelected) (Selection, error) {
	req := selectRequest{event: event, response: make(chan selectResponse, 1)}
	select {
	case s.selectChan <- req:
	case <-s.doneChan:
		return Selection{}, ErrSessionClosed
	case <-ctx.Done():
		return Selection{}, ctx.Err()
	}
	resp := <-req.response
	return resp.selection, resp.err
}

// Status is a thread safe way to read the session state
func (s *Session) Status() (SessionStatus, error) {
	responseChan := make(chan SessionStatus, 1) //Must have a buffer. Run won't wait if it can't send.
	select {
	case s.statusChan <- responseChan:
	case <-s.doneChan:
		return SessionStatus{}, ErrSessionClosed
	}
	select {
	case status := <-responseChan:
		return status, nil
	case <-s.doneChan:
		return SessionStatus{}, ErrSessionClosed
	}
}

func (s *Session) add(event PointSelected) (Selection, error) {
	point := model.Point{ID: pointID(s.count + 1), Lon: event.Lon, Lat: event.Lat}
	samples, err := sampler.SamplePoints(s.result.Grid, []model.Point{point})
	if err != nil {
		s.rejected++
		util.LogAlert(s.context, fmt.Sprintf("Rejected point (%v, %v): %v", event.Lon, event.Lat, err))
		return Selection{}, err
	}
	s.count++

	selection := Selection{PointSample: samples[0], Indices: map[string]float64{}}
	for _, name := range s.formulas {
		value, err := s.registry.Evaluate(name, s.result.Grid.Wavelengths, selection.Spectrum)
		if err != nil {
			return Selection{}, err
		}
		selection.Indices[name] = value
	}

	s.selections = append(s.selections, selection)
	if over := len(s.selections) - s.maxPoints; over > 0 {
		s.selections = append([]Selection{}, s.selections[over:]...)
	}
	util.LogAudit(s.context, util.LogAuditInput{Actor: "user", Action: "select", Actee: point.ID, Message: fmt.Sprintf("Selected (%v, %v)", event.Lon, event.Lat), Severity: util.INFO})
	return selection, nil
}

func (s *Session) status() SessionStatus {
	status := SessionStatus{
		Wavelengths: append([]float64{}, s.result.Grid.Wavelengths...),
		Formulas:    append([]string{}, s.formulas...),
		MaxPoints:   s.maxPoints,
		Selections:  make([]Selection, len(s.selections)),
		Rejected:    s.rejected,
	}
	if s.result.Granule != nil {
		status.GranuleID = s.result.Granule.ID
	}
	for i, sel := range s.selections {
		values := make(map[string]float64, len(sel.Indices))
		for k, v := range sel.Indices {
			values[k] = v
		}
		sel.Spectrum = append([]float64{}, sel.Spectrum...)
		sel.Indices = values
		status.Selections[i] = sel
	}
	return status
}
