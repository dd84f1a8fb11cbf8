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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/venicegeo/bf-sr-explorer/model"
)

// WriteCSV writes one header row and one row per sample
func WriteCSV(w io.Writer, wavelengths []float64, samples []model.PointSample) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header(wavelengths)); err != nil {
		return err
	}
	for _, s := range samples {
		if len(s.Spectrum) != len(wavelengths) {
			return fmt.Errorf("sample %s has %d values for %d wavelengths", s.ID, len(s.Spectrum), len(wavelengths))
		}
		record := []string{s.ID, formatFloat(s.Lon), formatFloat(s.Lat)}
		for _, v := range s.Spectrum {
			record = append(record, formatFloat(v))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV parses what WriteCSV produces
func ReadCSV(r io.Reader) ([]float64, []model.PointSample, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading sample header: %v", err)
	}
	if len(header) < 3 || header[0] != "id" || header[1] != "longitude" || header[2] != "latitude" {
		return nil, nil, fmt.Errorf("unexpected sample header %v", header)
	}
	wavelengths := make([]float64, len(header)-3)
	for i, h := range header[3:] {
		if wavelengths[i], err = strconv.ParseFloat(h, 64); err != nil {
			return nil, nil, fmt.Errorf("bad wavelength column %q: %v", h, err)
		}
	}

	samples := []model.PointSample{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, err
		}
		values := make([]float64, len(record)-1)
		for i, field := range record[1:] {
			if values[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, fmt.Errorf("sample %s column %d: %v", record[0], i+2, err)
			}
		}
		samples = append(samples, model.PointSample{
			ID:       record[0],
			Lon:      values[0],
			Lat:      values[1],
			Spectrum: values[2:],
		})
	}
	return wavelengths, samples, nil
}
