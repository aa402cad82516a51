// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
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

package lzw

import (
	"bufio"
	"errors"
	"io"
)

// Reader is an io.ReadCloser that decodes PDF-variant LZW data.
type Reader struct {
	r           *bufio.Reader
	earlyChange bool

	bitBuf uint32
	nBits  uint

	table [][]byte
	next  uint16
	width uint
	prev  []byte

	pending []byte
	done    bool
	err     error
}

// NewReader returns a Reader decoding r with the PDF-variant LZW algorithm.
// earlyChange must match the encoder's /EarlyChange setting.
func NewReader(r io.Reader, earlyChange bool) *Reader {
	lr := &Reader{r: bufio.NewReader(r), earlyChange: earlyChange}
	lr.resetTable()
	return lr
}

func (r *Reader) resetTable() {
	r.table = r.table[:0]
	r.next = firstFreeCode
	r.width = minCodeWidth
	r.prev = nil
}

func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 && !r.done && r.err == nil {
		r.step()
	}
	if len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// step decodes exactly one code and appends its output to r.pending.
func (r *Reader) step() {
	code, ok := r.readCode()
	if !ok {
		r.done = true
		if r.err == nil {
			r.err = errors.New("lzw: truncated stream, missing EOD marker")
		}
		return
	}

	switch code {
	case clearCode:
		r.resetTable()
		return
	case eodCode:
		r.done = true
		return
	}

	var entry []byte
	switch {
	case code < 256:
		entry = []byte{byte(code)}
	case int(code-firstFreeCode) < len(r.table):
		entry = r.table[code-firstFreeCode]
	case int(code-firstFreeCode) == len(r.table) && r.prev != nil:
		entry = append(append([]byte(nil), r.prev...), r.prev[0])
	default:
		r.done = true
		r.err = errors.New("lzw: invalid code in input stream")
		return
	}

	r.pending = append(r.pending, entry...)

	if r.prev != nil && r.next <= maxCode {
		newEntry := append(append([]byte(nil), r.prev...), entry[0])
		r.table = append(r.table, newEntry)
		r.next++
		r.updateWidth()
	}
	r.prev = entry
}

func (r *Reader) updateWidth() {
	threshold := uint32(r.next)
	if r.earlyChange {
		threshold++
	}
	for r.width < maxCodeWidth && threshold > (1<<r.width) {
		r.width++
	}
}

// readCode reads the next code, width bits wide, MSB first.
func (r *Reader) readCode() (uint16, bool) {
	for r.nBits < r.width {
		b, err := r.r.ReadByte()
		if err != nil {
			return 0, false
		}
		r.bitBuf = (r.bitBuf << 8) | uint32(b)
		r.nBits += 8
	}
	r.nBits -= r.width
	code := uint16((r.bitBuf >> r.nBits) & ((1 << r.width) - 1))
	return code, true
}

// Close releases resources held by the reader. Decoding errors are reported
// from Read, not Close.
func (r *Reader) Close() error {
	return nil
}
