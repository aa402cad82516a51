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

// Package runlength implements the PDF /RunLengthDecode filter (ISO
// 32000-1 section 7.4.5).
package runlength

import (
	"bufio"
	"io"
)

const eodLength = 128

// Decode returns a Reader decoding RunLength data, terminated by a length
// byte of 128.
func Decode(r io.Reader) io.Reader {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r       *bufio.Reader
	pending []byte
	done    bool
	err     error
}

func (d *reader) Read(p []byte) (int, error) {
	for len(d.pending) == 0 && !d.done && d.err == nil {
		d.step()
	}
	if len(d.pending) == 0 {
		if d.err != nil {
			return 0, d.err
		}
		return 0, io.EOF
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *reader) step() {
	length, err := d.r.ReadByte()
	if err != nil {
		d.done = true
		if err == io.EOF {
			d.err = io.ErrUnexpectedEOF
		} else {
			d.err = err
		}
		return
	}

	switch {
	case length == eodLength:
		d.done = true
	case length < eodLength:
		n := int(length) + 1
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			d.done = true
			d.err = io.ErrUnexpectedEOF
			return
		}
		d.pending = buf
	default:
		b, err := d.r.ReadByte()
		if err != nil {
			d.done = true
			d.err = io.ErrUnexpectedEOF
			return
		}
		count := 257 - int(length)
		buf := make([]byte, count)
		for i := range buf {
			buf[i] = b
		}
		d.pending = buf
	}
}

// Encode returns a WriteCloser which encodes written bytes using the
// RunLength format as literal runs of up to 128 bytes; it does not detect
// repeated-byte runs, since that optimization only affects output size, not
// decodability (this is a test/round-trip helper, not part of the core
// read-only filter chain).
func Encode(w io.WriteCloser) io.WriteCloser {
	return &writer{w: w}
}

type writer struct {
	w   io.WriteCloser
	buf []byte
}

func (e *writer) Write(p []byte) (int, error) {
	e.buf = append(e.buf, p...)
	for len(e.buf) >= 128 {
		if err := e.flushChunk(e.buf[:128]); err != nil {
			return 0, err
		}
		e.buf = e.buf[128:]
	}
	return len(p), nil
}

func (e *writer) flushChunk(chunk []byte) error {
	hdr := []byte{byte(len(chunk) - 1)}
	if _, err := e.w.Write(hdr); err != nil {
		return err
	}
	_, err := e.w.Write(chunk)
	return err
}

func (e *writer) Close() error {
	if len(e.buf) > 0 {
		if err := e.flushChunk(e.buf); err != nil {
			return err
		}
		e.buf = nil
	}
	if _, err := e.w.Write([]byte{eodLength}); err != nil {
		return err
	}
	return e.w.Close()
}
