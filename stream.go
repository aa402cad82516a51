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

// lengthResolver resolves a stream dictionary's /Length entry to an integer
// value. The xref engine (reading a cross-reference stream, which by the PDF
// spec itself can never carry an indirect /Length) passes none, accepting
// only a direct Integer; the document reader passes one that also resolves
// indirect references through the document's xref table.
type lengthResolver func(Object) (Integer, bool, error)

// readStreamBody consumes "stream" <EOL> <body> "endstream" at the cursor's
// current position, which must immediately follow a parsed stream
// dictionary (spec §4.6, component C1/C6). If the dictionary is not
// immediately followed by the "stream" keyword, readStreamBody returns
// (nil, nil) and leaves the cursor where it found the keyword absent.
//
// When /Length is missing, unresolvable, or inconsistent with where
// "endstream" actually occurs, readStreamBody falls back to scanning forward
// for the literal token "endstream" (spec §7 local-recovery rule (a)).
func readStreamBody(c *cursor, dict Dict, resolve ...lengthResolver) ([]byte, error) {
	save := c.filePos
	c.skipWhiteSpace()
	kw := c.peek(6)
	if len(kw) < 6 || string(kw[:6]) != "stream" {
		c.filePos = save
		return nil, nil
	}
	c.advance(6)

	if err := consumeStreamEOL(c); err != nil {
		return nil, err
	}
	bodyStart := c.filePos

	var resolveLength lengthResolver
	if len(resolve) > 0 {
		resolveLength = resolve[0]
	}

	if n, ok, err := resolveStreamLength(dict["Length"], resolveLength); err == nil && ok && n >= 0 {
		end := bodyStart + int64(n)
		if end <= c.size {
			c.Seek(end, 0)
			c.skipWhiteSpace()
			if tok := c.peek(9); len(tok) >= 9 && string(tok[:9]) == "endstream" {
				c.advance(9)
				return c.sliceFrom(bodyStart, end)
			}
		}
	}

	// Fall back: scan forward for a literal "endstream" token.
	c.Seek(bodyStart, 0)
	end, err := c.scanForEndstream()
	if err != nil {
		return nil, err
	}
	body, err := c.sliceFrom(bodyStart, end)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// resolveStreamLength resolves a /Length value that may be a direct Integer
// or (when resolve is non-nil) an indirect Reference.
func resolveStreamLength(v Object, resolve lengthResolver) (Integer, bool, error) {
	switch x := v.(type) {
	case Integer:
		return x, true, nil
	case Reference:
		if resolve == nil {
			return 0, false, nil
		}
		return resolve(x)
	default:
		return 0, false, nil
	}
}

// consumeStreamEOL consumes exactly one EOL (CRLF or LF, never a bare CR)
// following the "stream" keyword, per spec §4.6.
func consumeStreamEOL(c *cursor) error {
	b, ok := c.peekByte()
	if !ok {
		return newFileError(CategoryStream, c.filePos, "missing end-of-line after 'stream' keyword")
	}
	if b == '\r' {
		if two := c.peek(2); len(two) == 2 && two[1] == '\n' {
			c.advance(2)
		}
		// a bare CR is not consumed
		return nil
	}
	if b == '\n' {
		c.advance(1)
		return nil
	}
	// tolerate a missing EOL, as some writers omit it (§7 recovery rule (a))
	return nil
}

// scanForEndstream locates the next "endstream" token from the current
// position, returning the offset of the byte preceding it (with a single
// trailing EOL stripped).
func (c *cursor) scanForEndstream() (int64, error) {
	const needle = "endstream"
	const window = 65536

	bodyStart := c.filePos
	pos := bodyStart
	for {
		chunkLen := int64(window)
		if pos+chunkLen > c.size {
			chunkLen = c.size - pos
		}
		if chunkLen <= 0 {
			return 0, newFileError(CategoryStream, bodyStart, "missing 'endstream' keyword")
		}

		save := c.filePos
		c.filePos = pos
		buf := c.peek(int(chunkLen) + len(needle))
		c.filePos = save

		idx := lastIndexFirst(buf, needle)
		if idx >= 0 {
			endstreamOffset := pos + int64(idx)
			bodyEnd := endstreamOffset
			if bodyEnd > bodyStart && buf[idx-1] == '\n' {
				bodyEnd--
				if bodyEnd > bodyStart && idx >= 2 && buf[idx-2] == '\r' {
					bodyEnd--
				}
			} else if bodyEnd > bodyStart && buf[idx-1] == '\r' {
				bodyEnd--
			}
			c.Seek(endstreamOffset+int64(len(needle)), 0)
			return bodyEnd, nil
		}

		pos += chunkLen
		if pos >= c.size {
			return 0, newFileError(CategoryStream, bodyStart, "missing 'endstream' keyword")
		}
	}
}

func lastIndexFirst(b []byte, s string) int {
	return indexBytes(b, s)
}

func indexBytes(b []byte, s string) int {
	n := len(s)
	for i := 0; i+n <= len(b); i++ {
		if string(b[i:i+n]) == s {
			return i
		}
	}
	return -1
}

// sliceFrom reads exactly [start, end) from the underlying source.
func (c *cursor) sliceFrom(start, end int64) ([]byte, error) {
	if end < start {
		return nil, newFileError(CategoryStream, start, "negative-length stream")
	}
	save := c.filePos
	c.filePos = start
	b, err := c.read(int(end - start))
	c.filePos = save
	return b, err
}
