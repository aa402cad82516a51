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

	"github.com/pdfshift/pdfsurge/ascii85"
)

// decodeASCII85Filter implements the /ASCII85Decode filter (spec §4.3),
// delegating to the kept ascii85 subpackage.
func decodeASCII85Filter(data []byte, parms Dict) ([]byte, error) {
	r, err := ascii85.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FileError{Kind: CategoryFilter, Err: err}
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &FileError{Kind: CategoryFilter, Err: err}
	}
	return out, nil
}
