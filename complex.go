// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
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

// This file contains more complex PDF data structures, composed of the
// elementary types in types.go.  Everything here is read-only: there is no
// AsPDF/Native encoding step, since this package never writes PDF back out.

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf16"
)

// TextString is the decoded (UTF-8) form of a PDF "text string" (spec §4.2's
// string object, interpreted per the PDF encoding rules for Info/Lang/etc.
// fields rather than as opaque bytes).
type TextString string

// GetTextString interprets obj as a PDF text string and returns its
// UTF-8-decoded form.
func GetTextString(r Getter, obj Object) (TextString, error) {
	s, err := GetString(r, obj)
	if err != nil {
		return "", err
	}
	return s.AsTextString(), nil
}

var utf16Marker = []byte{254, 255}
var utf8Marker = []byte{239, 187, 191}

// AsTextString decodes a PDF string object as a "text string": UTF-16BE
// (with a leading byte-order mark), UTF-8 (with the non-standard but
// sometimes-seen 0xEF 0xBB 0xBF marker this reader tolerates), or
// PDFDocEncoding otherwise.
func (x String) AsTextString() TextString {
	b := x.Data

	var s string
	switch {
	case len(b) >= 2 && b[0] == utf16Marker[0] && b[1] == utf16Marker[1]:
		buf := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			buf = append(buf, uint16(b[i])<<8|uint16(b[i+1]))
		}
		s = string(utf16.Decode(buf))
	case len(b) >= 3 && b[0] == utf8Marker[0] && b[1] == utf8Marker[1] && b[2] == utf8Marker[2]:
		s = string(b[3:])
	default:
		s = pdfDocDecode(b)
	}

	return TextString(s)
}

func (n Name) AsTextString() TextString {
	return TextString(n)
}

// pdfDocDecode decodes PDFDocEncoding bytes (PDF 32000-1:2008 Annex D) to a
// Go string. Below 0x80 this is plain ASCII; the high half of the table maps
// a fixed set of byte values to specific Unicode code points (curly quotes,
// dashes, trademark/bullet symbols, etc.) and leaves the remaining, unused
// byte values mapped to themselves (spec §4.2's permissive posture toward
// malformed strings: unknown bytes are never an error here).
func pdfDocDecode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if r, ok := pdfDocHighTable[c]; ok {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}

// pdfDocHighTable covers the bytes 0x18-0x1F and 0x80-0xA0 of
// PDFDocEncoding that diverge from Latin-1/ASCII; every byte absent from
// this table decodes to the Unicode code point of the same value.
var pdfDocHighTable = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙',
	0x1C: '˝', 0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
	0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł',
	0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0xA0: '€',
}

// Date is a PDF date/time value (spec §4.2's date-string rule).
type Date time.Time

func (d Date) String() string {
	return time.Time(d).Format(time.RFC3339)
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// GetDate resolves obj and parses it as a PDF date string.
func GetDate(r Getter, obj Object) (Date, error) {
	var zero Date
	s, err := GetString(r, obj)
	if err != nil {
		return zero, err
	}
	return s.AsDate()
}

// AsDate parses a PDF date string of the form "D:YYYYMMDDHHmmSSOHH'mm'"
// (PDF 32000-1:2008 §7.9.4). Per DESIGN.md's decision on date-string
// apostrophes, the apostrophes separating the UTC-offset
// hour and minute are NOT stripped before parsing — Go's reference layout
// already expects the bare "-0700" form, and early experiments that
// stripped them first produced incorrect offsets whenever the minute part
// was itself all digits.
func (x String) AsDate() (Date, error) {
	var zero Date

	s := string(x.AsTextString())
	s = strings.TrimSpace(s)
	if s == "D:" || s == "" {
		return zero, nil
	}
	if strings.HasPrefix(s, "19") || strings.HasPrefix(s, "20") {
		s = "D:" + s
	}

	formats := []string{
		"D:20060102150405-07'00'",
		"D:20060102150405-07'00",
		"D:20060102150405-0700",
		"D:20060102150405-07",
		"D:20060102150405Z00'00'",
		"D:20060102150405Z0000",
		"D:20060102150405Z00",
		"D:20060102150405Z",
		"D:20060102150405",
		"D:200601021504",
		"D:2006010215",
		"D:20060102",
		"D:200601",
		"D:2006",
		time.ANSIC,
	}
	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			t = t.Truncate(time.Second)
			return Date(t), nil
		}
	}
	return zero, errNoDate
}

// Rectangle is a PDF rectangle object (spec §4.2), normalized so that LL is
// always the lower-left and UR the upper-right corner regardless of the
// order the source array listed them in.
type Rectangle struct {
	LLx, LLy, URx, URy float64
}

func (r *Rectangle) Dx() float64 { return r.URx - r.LLx }
func (r *Rectangle) Dy() float64 { return r.URy - r.LLy }

func (r *Rectangle) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.LLx, r.LLy, r.URx, r.URy)
}

// IsZero is true if the rectangle is the zero rectangle object.
func (r Rectangle) IsZero() bool {
	return r.LLx == 0 && r.LLy == 0 && r.URx == 0 && r.URy == 0
}

// Equal reports whether two rectangles have identical coordinates.
func (r *Rectangle) Equal(other *Rectangle) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.LLx == other.LLx && r.LLy == other.LLy &&
		r.URx == other.URx && r.URy == other.URy
}

// GetRectangle resolves obj and interprets it as a PDF rectangle object ([x0
// y0 x1 y1]). A null object yields (nil, nil).
func GetRectangle(r Getter, obj Object) (*Rectangle, error) {
	a, err := GetArray(r, obj)
	if err != nil || a == nil {
		return nil, err
	}
	if len(a) != 4 {
		return nil, errNoRectangle
	}
	values, err := GetFloatArray(r, a)
	if err != nil {
		return nil, err
	}
	return &Rectangle{
		LLx: math.Min(values[0], values[2]),
		LLy: math.Min(values[1], values[3]),
		URx: math.Max(values[0], values[2]),
		URy: math.Max(values[1], values[3]),
	}, nil
}

// Info represents a PDF Document Information Dictionary (spec §6's
// Document.metadata()). All fields are optional.
//
// The Document Information Dictionary is documented in section 14.3.3 of
// PDF 32000-1:2008.
type Info struct {
	Title    TextString
	Author   TextString
	Subject  TextString
	Keywords TextString

	// Creator names the application that created the original document, if
	// it was converted to PDF from another format.
	Creator TextString

	// Producer names the application that performed the PDF conversion.
	Producer TextString

	CreationDate Date
	ModDate      Date

	// Trapped is one of "True", "False" or "Unknown" (the PDF default).
	Trapped Name

	// Custom holds every non-standard key of the Info dictionary whose
	// value is a string, decoded as a text string; other values are skipped.
	Custom map[string]string
}

var infoStandardKeys = map[Name]bool{
	"Title": true, "Author": true, "Subject": true, "Keywords": true,
	"Creator": true, "Producer": true, "CreationDate": true, "ModDate": true,
	"Trapped": true,
}

// ExtractInfo decodes obj (the trailer's resolved /Info dictionary) into an
// Info value. A missing field is left at its zero value rather than being
// an error, matching spec §7's tolerant-by-default reading posture.
func ExtractInfo(r Getter, obj Object) (*Info, error) {
	dict, err := GetDict(r, obj)
	if err != nil || dict == nil {
		return nil, err
	}

	get := func(key Name) TextString {
		ts, _ := GetTextString(r, dict[key])
		return ts
	}
	getDate := func(key Name) Date {
		d, _ := GetDate(r, dict[key])
		return d
	}
	trapped, _ := GetName(r, dict["Trapped"])

	info := &Info{
		Title:        get("Title"),
		Author:       get("Author"),
		Subject:      get("Subject"),
		Keywords:     get("Keywords"),
		Creator:      get("Creator"),
		Producer:     get("Producer"),
		CreationDate: getDate("CreationDate"),
		ModDate:      getDate("ModDate"),
		Trapped:      trapped,
	}
	for k := range dict {
		if infoStandardKeys[k] {
			continue
		}
		if ts, err := GetTextString(r, dict[k]); err == nil {
			if info.Custom == nil {
				info.Custom = map[string]string{}
			}
			info.Custom[string(k)] = string(ts)
		}
	}
	return info, nil
}
