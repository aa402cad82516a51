// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

// Package asciihex implements the PDF /ASCIIHexDecode filter (ISO 32000-1
// section 7.4.2).
package asciihex

import (
	"fmt"
	"io"
)

// Decode returns a Reader which decodes ASCIIHex data, terminated by a
// trailing '>'. A missing terminator is reported as an error once the
// underlying reader is exhausted; any bytes decoded before the error are
// still returned, following the io.Reader convention of returning (n>0, err).
func Decode(r io.Reader) io.Reader {
	return &hexReader{r: r}
}

type hexReader struct {
	r                io.Reader
	done             bool
	err              error
	pendingHasNibble bool
	pendingNibble    byte
	one              [1]byte
}

func (d *hexReader) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.done {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) {
		_, err := d.r.Read(d.one[:])
		if err != nil {
			if err == io.EOF {
				d.done = true
				d.err = io.ErrUnexpectedEOF
			} else {
				d.err = err
			}
			return n, d.err
		}

		b := d.one[0]
		switch {
		case b == '>':
			if d.pendingHasNibble {
				p[n] = d.pendingNibble << 4
				n++
			}
			d.done = true
			return n, io.EOF
		case isHexSpace(b):
			continue
		default:
			v, ok := hexValue(b)
			if !ok {
				d.err = fmt.Errorf("asciihex: invalid character %q", b)
				return n, d.err
			}
			if !d.pendingHasNibble {
				d.pendingNibble = v
				d.pendingHasNibble = true
			} else {
				p[n] = d.pendingNibble<<4 | v
				n++
				d.pendingHasNibble = false
			}
		}
	}
	return n, nil
}

func isHexSpace(b byte) bool {
	switch b {
	case 0, 9, 10, 12, 13, 32:
		return true
	default:
		return false
	}
}

func hexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
