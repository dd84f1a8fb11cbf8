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
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/venicegeo/bf-sr-explorer/model"
	"github.com/venicegeo/bf-sr-explorer/pipeline"
)

// WithTx runs fn in a transaction, committing when it returns nil
func WithTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SaveGranule inserts or replaces a granule row
func SaveGranule(tx *sql.Tx, record GranuleRecord) error {
	var bbox interface{}
	if len(record.Bbox) > 0 {
		bytes, err := json.Marshal(record.Bbox)
		if err != nil {
			return err
		}
		bbox = string(bytes)
	}
	_, err := tx.Exec(`
		INSERT INTO public.granules
			(granule_id, start_time, end_time, band_coord, wavelengths, crs, resolution, valid_pixels, bbox)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (granule_id) DO UPDATE SET
			start_time=EXCLUDED.start_time, end_time=EXCLUDED.end_time,
			band_coord=EXCLUDED.band_coord, wavelengths=EXCLUDED.wavelengths,
			crs=EXCLUDED.crs, resolution=EXCLUDED.resolution,
			valid_pixels=EXCLUDED.valid_pixels, bbox=EXCLUDED.bbox,
			processed_at=now()`,
		record.ID, record.Start, record.End, record.BandCoord, pq.Array(record.Wavelengths),
		record.CRS, record.Resolution, record.ValidPixels, bbox,
	)
	return err
}

// SaveSamples inserts or replaces the point samples of a granule
func SaveSamples(tx *sql.Tx, granuleID string, selections []pipeline.Selection) error {
	statement, err := tx.Prepare(`
		INSERT INTO public.point_samples
			(granule_id, point_id, ordinal, longitude, latitude, spectrum, indices)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (granule_id, point_id) DO UPDATE SET
			ordinal=EXCLUDED.ordinal, longitude=EXCLUDED.longitude, latitude=EXCLUDED.latitude,
			spectrum=EXCLUDED.spectrum, indices=EXCLUDED.indices,
			sampled_at=now()`)
	if err != nil {
		return err
	}
	defer statement.Close()

	for i, sel := range selections {
		indices, err := json.Marshal(toIndexValues(sel.Indices))
		if err != nil {
			return err
		}
		if _, err = statement.Exec(granuleID, sel.ID, i, sel.Lon, sel.Lat, pq.Array(sel.Spectrum), string(indices)); err != nil {
			return fmt.Errorf("save sample %s: %v", sel.ID, err)
		}
	}
	return nil
}

// ListSamples returns the wavelengths of a granule and its stored samples in
// the order they were saved
func ListSamples(tx *sql.Tx, granuleID string) ([]float64, []pipeline.Selection, error) {
	var wavelengths []float64
	err := tx.QueryRow(`SELECT wavelengths FROM public.granules WHERE granule_id=$1`, granuleID).
		Scan(pq.Array(&wavelengths))
	if err == sql.ErrNoRows {
		return nil, nil, &model.NotFoundError{What: "granule", Name: granuleID}
	} else if err != nil {
		return nil, nil, err
	}

	rows, err := tx.Query(`
		SELECT point_id, longitude, latitude, spectrum, indices
		FROM public.point_samples
		WHERE granule_id=$1
		ORDER BY ordinal, point_id`,
		granuleID,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	selections := []pipeline.Selection{}
	for rows.Next() {
		var (
			sel          pipeline.Selection
			indicesBytes []byte
		)
		if err = rows.Scan(&sel.ID, &sel.Lon, &sel.Lat, pq.Array(&sel.Spectrum), &indicesBytes); err != nil {
			return nil, nil, err
		}
		values := indexValues{}
		if len(indicesBytes) > 0 {
			if err = json.Unmarshal(indicesBytes, &values); err != nil {
				return nil, nil, err
			}
		}
		sel.Indices = values.values()
		selections = append(selections, sel)
	}
	return wavelengths, selections, rows.Err()
}
