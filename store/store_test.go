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

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/pipeline"
)

func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNewGranuleRecord(t *testing.T) {
	result := &pipeline.Result{
		Granule:     &model.Granule{ID: "G1", BandCoord: "wavelength_3d"},
		ValidPixels: 7,
		Grid: &model.RegriddedCube{
			CRS:         "EPSG:4326",
			Wavelengths: []float64{400, 500},
			X:           []float64{-70, -69.9},
			Y:           []float64{40, 39.9},
			Resolution:  0.1,
		},
	}

	record := NewGranuleRecord(result)

	assert.Equal(t, "G1", record.ID)
	assert.Equal(t, 7, record.ValidPixels)
	assert.Equal(t, "EPSG:4326", record.CRS)
	require.Len(t, record.Bbox, 4)
	assert.InDelta(t, -70.05, record.Bbox[0], 1e-9)
	assert.InDelta(t, 39.85, record.Bbox[1], 1e-9)
	assert.InDelta(t, -69.85, record.Bbox[2], 1e-9)
	assert.InDelta(t, 40.05, record.Bbox[3], 1e-9)
}

func TestSaveGranule(t *testing.T) {
	// Mock
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO public.granules").
		WithArgs("G1", sqlmock.AnyArg(), sqlmock.AnyArg(), "wavelength_3d", "{400,500}", "EPSG:4326", 0.1, 7, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Tested code
	err := WithTx(db, func(tx *sql.Tx) error {
		return SaveGranule(tx, GranuleRecord{
			ID:          "G1",
			BandCoord:   "wavelength_3d",
			Wavelengths: []float64{400, 500},
			CRS:         "EPSG:4326",
			Resolution:  0.1,
			ValidPixels: 7,
			Bbox:        []float64{-70, 39, -69, 40},
		})
	})

	// Asserts
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestWithTx_Rollback(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO public.granules").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := WithTx(db, func(tx *sql.Tx) error {
		return SaveGranule(tx, GranuleRecord{ID: "G1"})
	})

	assert.NotNil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestSaveSamples(t *testing.T) {
	// Mock
	db, mock := mockDB(t)
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO public.point_samples")
	prep.ExpectExec().
		WithArgs("G1", "p1", 0, -70.0, 40.0, "{0.1,NaN}", `{"CIRE":0.5}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("G1", "p2", 1, -69.9, 39.9, "{0.2,0.3}", `{"CIRE":null}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	selections := []pipeline.Selection{
		{PointSample: model.PointSample{ID: "p1", Lon: -70, Lat: 40, Spectrum: []float64{0.1, math.NaN()}}, Indices: map[string]float64{"CIRE": 0.5}},
		{PointSample: model.PointSample{ID: "p2", Lon: -69.9, Lat: 39.9, Spectrum: []float64{0.2, 0.3}}, Indices: map[string]float64{"CIRE": math.Inf(1)}},
	}

	// Tested code
	err := WithTx(db, func(tx *sql.Tx) error {
		return SaveSamples(tx, "G1", selections)
	})

	// Asserts
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestSaveSamples_Ordinals(t *testing.T) {
	// Mock
	db, mock := mockDB(t)
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO public.point_samples")
	selections := []pipeline.Selection{}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("p%d", i+1)
		selections = append(selections, pipeline.Selection{PointSample: model.PointSample{ID: id, Spectrum: []float64{0.1}}})
		prep.ExpectExec().
			WithArgs("G1", id, i, 0.0, 0.0, "{0.1}", "{}").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	// Tested code
	err := WithTx(db, func(tx *sql.Tx) error {
		return SaveSamples(tx, "G1", selections)
	})

	// Asserts
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestListSamples(t *testing.T) {
	// Mock
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wavelengths FROM public.granules").
		WithArgs("G1").
		WillReturnRows(sqlmock.NewRows([]string{"wavelengths"}).AddRow([]byte("{400,500}")))
	rows := sqlmock.NewRows([]string{"point_id", "longitude", "latitude", "spectrum", "indices"}).
		AddRow("p1", -70.0, 40.0, []byte("{0.1,NaN}"), []byte(`{"CIRE":0.5,"CAR":null}`)).
		AddRow("p2", -69.9, 39.9, []byte("{0.2,0.3}"), nil)
	for i := 3; i <= 11; i++ {
		rows.AddRow(fmt.Sprintf("p%d", i), -69.0, 39.0, []byte("{0.2,0.3}"), nil)
	}
	mock.ExpectQuery("SELECT point_id, longitude, latitude, spectrum, indices .* ORDER BY ordinal").
		WithArgs("G1").
		WillReturnRows(rows)
	mock.ExpectCommit()

	// Tested code
	var wavelengths []float64
	var selections []pipeline.Selection
	err := WithTx(db, func(tx *sql.Tx) (err error) {
		wavelengths, selections, err = ListSamples(tx, "G1")
		return
	})

	// Asserts
	require.Nil(t, err)
	assert.Equal(t, []float64{400, 500}, wavelengths)
	require.Len(t, selections, 11)
	for i, sel := range selections {
		assert.Equal(t, fmt.Sprintf("p%d", i+1), sel.ID)
	}
	assert.Equal(t, 0.1, selections[0].Spectrum[0])
	assert.True(t, math.IsNaN(selections[0].Spectrum[1]))
	assert.Equal(t, 0.5, selections[0].Indices["CIRE"])
	assert.True(t, math.IsNaN(selections[0].Indices["CAR"]))
	assert.Empty(t, selections[1].Indices)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestListSamples_UnknownGranule(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wavelengths FROM public.granules").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"wavelengths"}))
	mock.ExpectRollback()

	err := WithTx(db, func(tx *sql.Tx) error {
		_, _, err := ListSamples(tx, "nope")
		return err
	})

	var notFound *model.NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Nil(t, mock.ExpectationsWereMet())
}
