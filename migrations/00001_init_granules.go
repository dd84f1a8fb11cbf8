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
	goose.AddMigration(Up00001, Down00001)
}

//Up00001 adds the table of processed granules
func Up00001(tx *sql.Tx) error {
	// This code is executed when the migration is applied.
	_, err := tx.Exec(`
	CREATE TABLE public.granules
	(
		granule_id text COLLATE pg_catalog."default" NOT NULL,
		start_time timestamp with time zone,
		end_time timestamp with time zone,
		band_coord text NOT NULL,
		wavelengths double precision[] NOT NULL,
		crs text NOT NULL,
		resolution double precision NOT NULL,
		valid_pixels integer NOT NULL,
		bbox json,
		processed_at timestamp with time zone NOT NULL DEFAULT now(),
		CONSTRAINT granules_pk_granule_id PRIMARY KEY (granule_id)
	)
	WITH (
		OIDS = FALSE
	);
	`)
	return err
}

//Down00001 undoes the db changes.
func Down00001(tx *sql.Tx) error {
	// This code is executed when the migration is rolled back.
	_, err := tx.Exec(`DROP TABLE IF EXISTS public.granules;`)
	return err
}
