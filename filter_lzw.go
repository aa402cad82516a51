// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"bytes"
	"io"

	"github.com/pdfshift/pdfsurge/lzw"
)

// decodeLZW implements the /LZWDecode filter (spec §4.3): the PDF-variant
// LZW decompression followed by the optional predictor pass. /EarlyChange 1
// (the default when the entry is absent) and /EarlyChange 0 are both
// decoded; any other value is an error.
func decodeLZW(data []byte, parms Dict) ([]byte, error) {
	earlyChange := true
	if v, ok := parms["EarlyChange"].(Integer); ok {
		switch v {
		case 0:
			earlyChange = false
		case 1:
			earlyChange = true
		default:
			return nil, newFileError(CategoryFilter, 0, "invalid /EarlyChange value %d", v)
		}
	}

	lr := lzw.NewReader(bytes.NewReader(data), earlyChange)
	defer lr.Close()

	out, err := io.ReadAll(lr)
	if err != nil && len(out) == 0 {
		return nil, &FileError{Kind: CategoryFilter, Err: err}
	}

	return applyStreamPredictor(parms, out)
}

// encodeLZW is a test/round-trip helper; the core reader never writes.
func encodeLZW(data []byte, earlyChange bool) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzw.NewWriter(&buf, earlyChange)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
