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

package display

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// EncodeImage writes img in the named format ("png", "tif" or "tiff")
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// WriteImage writes img to filename, choosing the encoder from its extension
func WriteImage(img image.Image, filename string) error {
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if !Supported(format) {
		return fmt.Errorf("unsupported image format %q", format)
	}
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return EncodeImage(writer, img, format)
	}
}

// Supported reports whether EncodeImage can write format
func Supported(format string) bool {
	switch strings.ToLower(format) {
	case "png", "tif", "tiff":
		return true
	}
	return false
}
