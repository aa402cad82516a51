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
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Object is the universal PDF object value (spec §3): a tagged sum of Null,
// Boolean, Integer, Real, Name, String, Array, Dict, Reference and *Stream.
// Every concrete type in this file implements it.
type Object interface {
	pdfObject()
}

// Null is the PDF "null" object.
type Null struct{}

func (Null) pdfObject() {}

// Boolean is a PDF boolean object.
type Boolean bool

func (Boolean) pdfObject() {}

// Integer is a signed PDF integer object, at least 64 bits wide.
type Integer int64

func (Integer) pdfObject() {}

// Real is a PDF real-number object.
type Real float64

func (Real) pdfObject() {}

// Name is an interned PDF name object, stored without its leading "/" and
// with "#XX" escapes already decoded.
type Name string

func (Name) pdfObject() {}

// String is a raw PDF string object.  Flavor records whether it was
// written in literal (parenthesized) or hexadecimal (angle-bracketed) form;
// this is preserved for round-tripping but never affects equality of the
// decoded bytes.
type String struct {
	Data   []byte
	Flavor StringFlavor
}

// StringFlavor distinguishes the two lexical forms of a PDF string.
type StringFlavor uint8

const (
	// StringLiteral is the "(...)" form.
	StringLiteral StringFlavor = iota
	// StringHex is the "<...>" form.
	StringHex
)

func (String) pdfObject() {}

// Array is an ordered sequence of object values.
type Array []Object

func (Array) pdfObject() {}

// Clone returns a shallow copy of the array, so that callers may not mutate
// cached objects through the returned slice. Grounded on golang.org/x/exp/slices.
func (a Array) Clone() Array {
	if a == nil {
		return nil
	}
	return slices.Clone(a)
}

// Dict is a mapping from Name to object value.  Go maps do not preserve
// insertion order, and the parser does not retain the original key order
// anywhere else (the core is read-only and never writes dictionaries back
// out).
type Dict map[Name]Object

func (Dict) pdfObject() {}

// Clone returns a shallow copy of the dictionary. Grounded on golang.org/x/exp/maps.
func (d Dict) Clone() Dict {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Reference is an indirect reference "(id, generation) R".
type Reference struct {
	Number     uint32
	Generation uint16
}

func (Reference) pdfObject() {}

func (r Reference) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// Stream is a Dictionary plus its raw (still filter-encoded, but already
// decrypted) byte payload. Decoded payload bytes are cached on first access
// (spec §5: "decoded bytes are retained in the object for the session") —
// see (*Document).DecodeStream.
type Stream struct {
	Dict Dict
	Raw  []byte

	decoded    []byte
	hasDecoded bool
}

func (*Stream) pdfObject() {}

// Version is a PDF version number, e.g. 1.7.
type Version float64

func (v Version) String() string {
	return fmt.Sprintf("%g", float64(v))
}
