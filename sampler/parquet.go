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

package sampler

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/venicegeo/bf-sr-explorer/model"
)

// sampleRow is the columnar layout of an exported sample
type sampleRow struct {
	ID          string    `parquet:"id"`
	Longitude   float64   `parquet:"longitude"`
	Latitude    float64   `parquet:"latitude"`
	Wavelengths []float64 `parquet:"wavelengths,list"`
	Spectrum    []float64 `parquet:"spectrum,list"`
}

// WriteParquet writes samples as a Parquet file
func WriteParquet(w io.Writer, wavelengths []float64, samples []model.PointSample) error {
	rows := make([]sampleRow, len(samples))
	for i, s := range samples {
		if len(s.Spectrum) != len(wavelengths) {
			return fmt.Errorf("sample %s has %d values for %d wavelengths", s.ID, len(s.Spectrum), len(wavelengths))
		}
		rows[i] = sampleRow{ID: s.ID, Longitude: s.Lon, Latitude: s.Lat, Wavelengths: wavelengths, Spectrum: s.Spectrum}
	}
	writer := parquet.NewGenericWriter[sampleRow](w)
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	return writer.Close()
}

// ReadParquet reads a file written by WriteParquet
func ReadParquet(r io.ReaderAt, size int64) ([]float64, []model.PointSample, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, nil, err
	}
	reader := parquet.NewGenericReader[sampleRow](pf)
	defer reader.Close()

	var wavelengths []float64
	samples := []model.PointSample{}
	rows := make([]sampleRow, 256)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			if wavelengths == nil {
				wavelengths = append([]float64{}, row.Wavelengths...)
			}
			spectrum := append([]float64{}, row.Spectrum...)
			samples = append(samples, model.PointSample{ID: row.ID, Lon: row.Longitude, Lat: row.Latitude, Spectrum: spectrum})
		}
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, nil, err
		}
		if n == 0 {
			break
		}
	}
	return wavelengths, samples, nil
}
