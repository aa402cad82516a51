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

package asciihex

import "io"

const hexDigits = "0123456789abcdef"

// Encode returns a WriteCloser which encodes written bytes as ASCIIHex,
// wrapping output so that no line exceeds width characters, and writing the
// '>' end-of-data marker and closing w when Close is called.
func Encode(w io.WriteCloser, width int) io.WriteCloser {
	if width < 1 {
		width = 1
	}
	return &hexWriter{w: w, width: width}
}

type hexWriter struct {
	w     io.WriteCloser
	width int
	buf   []byte
	col   int
}

func (e *hexWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		for _, c := range [2]byte{hexDigits[b>>4], hexDigits[b&0x0F]} {
			if e.col >= e.width {
				if err := e.newline(); err != nil {
					return 0, err
				}
			}
			e.buf = append(e.buf, c)
			e.col++
		}
	}
	return len(p), nil
}

func (e *hexWriter) newline() error {
	e.buf = append(e.buf, '\n')
	if _, err := e.w.Write(e.buf); err != nil {
		return err
	}
	e.buf = e.buf[:0]
	e.col = 0
	return nil
}

// Close writes the '>' end-of-data marker and closes the underlying writer.
func (e *hexWriter) Close() error {
	if e.col >= e.width {
		if err := e.newline(); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '>')
	if _, err := e.w.Write(e.buf); err != nil {
		return err
	}
	e.buf = nil
	return e.w.Close()
}
