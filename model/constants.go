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

package model

// CMRTimeFormat is the time format used for dates in catalog requests and features
const CMRTimeFormat = "2006-01-02T15:04:05Z"

// FileFormat is the on-disk format of a granule
type FileFormat string

// Granule file formats
const (
	NetCDF4 FileFormat = "netcdf4"
	HDF5    FileFormat = "hdf5"
	Unknown FileFormat = "unknown"
)

// FileFormatFromName guesses a granule's format from its file name
func FileFormatFromName(name string) FileFormat {
	switch {
	case hasSuffixFold(name, ".nc"), hasSuffixFold(name, ".nc4"):
		return NetCDF4
	case hasSuffixFold(name, ".h5"), hasSuffixFold(name, ".hdf5"), hasSuffixFold(name, ".he5"):
		return HDF5
	default:
		return Unknown
	}
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := 0; i < len(suffix); i++ {
		a, b := tail[i], suffix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
