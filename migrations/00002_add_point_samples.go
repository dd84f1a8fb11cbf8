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

package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00002, Down00002)
}

// Up00002 adds the table of sampled point spectra
func Up00002(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE public.point_samples
	(
		granule_id text NOT NULL REFERENCES public.granules (granule_id) ON DELETE CASCADE,
		point_id text NOT NULL,
		ordinal integer NOT NULL DEFAULT 0,
		longitude double precision NOT NULL,
		latitude double precision NOT NULL,
		spectrum double precision[] NOT NULL,
		indices json,
		sampled_at timestamp with time zone NOT NULL DEFAULT now(),
		CONSTRAINT point_samples_pk PRIMARY KEY (granule_id, point_id)
	);

	CREATE INDEX idx_point_samples_ordinal
	ON public.point_samples (granule_id, ordinal);

	CREATE INDEX idx_point_samples_location
	ON public.point_samples (longitude, latitude);
	`)
	return err
}

// Down00002 undoes the effects of Up00002
func Down00002(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS public.point_samples;`)
	return err
}
