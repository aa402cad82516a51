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

import "fmt"

// xrefEntryKind tags the three kinds of cross-reference entry (spec §3).
type xrefEntryKind uint8

const (
	xrefFree xrefEntryKind = iota
	xrefInUse
	xrefCompressed
)

// xrefEntry is one resolved cross-reference table entry.
type xrefEntry struct {
	Kind xrefEntryKind

	// valid when Kind == xrefInUse
	Offset int64

	// valid when Kind == xrefFree
	NextFreeID  uint32
	NextFreeGen uint16

	// valid when Kind == xrefCompressed
	ObjStmID  uint32
	ObjStmIdx int
}

// xrefTable is the fused id/generation -> entry index of spec §3/§4.5. It is
// populated by walking every xref section reachable through /Prev chaining,
// newest first; entries and trailer keys already present are never
// overwritten (first-section-wins, spec §4.5 "Chaining").
type xrefTable struct {
	entries map[Reference]xrefEntry
	trailer Dict

	// prevChain records the absolute offsets of every xref section visited,
	// in the order they were read, for Document.XrefSummary (SPEC_FULL §C.5).
	prevChain []int64
}

func newXRefTable() *xrefTable {
	return &xrefTable{
		entries: make(map[Reference]xrefEntry),
		trailer: Dict{},
	}
}

func (t *xrefTable) has(ref Reference) bool {
	_, ok := t.entries[ref]
	return ok
}

func (t *xrefTable) hasCompressed(id uint32) bool {
	e, ok := t.entries[Reference{Number: id}]
	return ok && e.Kind == xrefCompressed
}

func (t *xrefTable) lookup(ref Reference) (xrefEntry, bool) {
	e, ok := t.entries[ref]
	if ok {
		return e, true
	}
	// object streams always store their members at generation 0
	if ref.Generation == 0 {
		e, ok = t.entries[Reference{Number: ref.Number}]
		if ok && e.Kind == xrefCompressed {
			return e, true
		}
	}
	return xrefEntry{}, false
}

// readXRef walks the xref chain starting at startOffset, fusing sections
// newest-to-oldest per spec §4.5. Cross-reference streams are decoded with
// decodeFiltersDirect, using only directly-specified filter parameters (no
// indirect references), which is always sufficient for /Type /XRef streams
// per the PDF spec.
func readXRef(c *cursor, startOffset int64) (*xrefTable, error) {
	table := newXRefTable()
	visited := map[int64]bool{}

	offset := startOffset
	for {
		if visited[offset] {
			return nil, newFileError(CategoryXref, offset, "%w", errXrefCycle)
		}
		visited[offset] = true
		table.prevChain = append(table.prevChain, offset)

		c.Seek(offset, 0)
		sectionTrailer, err := readOneXRefSection(c, table)
		if err != nil {
			return nil, err
		}

		for k, v := range sectionTrailer {
			if _, exists := table.trailer[k]; !exists {
				table.trailer[k] = v
			}
		}

		prev, ok := sectionTrailer["Prev"]
		if !ok {
			break
		}
		prevInt, ok := prev.(Integer)
		if !ok {
			break
		}
		offset = int64(prevInt)
	}

	return table, nil
}

// readOneXRefSection reads a single xref section (classical or
// cross-reference-stream form) at the cursor's current position and merges
// its entries into table, without overwriting entries already present
// (first-section-wins). It returns that section's own trailer dictionary.
func readOneXRefSection(c *cursor, table *xrefTable) (Dict, error) {
	c.skipWhiteSpace()
	peeked := c.peek(4)

	if len(peeked) >= 4 && string(peeked[:4]) == "xref" {
		return readClassicalXRefSection(c, table)
	}

	return readXRefStreamSection(c, table)
}

func readClassicalXRefSection(c *cursor, table *xrefTable) (Dict, error) {
	if err := c.expect("xref"); err != nil {
		return nil, err
	}

	for {
		c.skipWhiteSpace()
		peeked := c.peek(7)
		if len(peeked) >= 7 && string(peeked[:7]) == "trailer" {
			c.advance(7)
			break
		}

		startTok := c.readToken(false)
		countTok := c.readToken(false)
		if !isAllDigits(startTok) || !isAllDigits(countTok) {
			return nil, newFileError(CategoryXref, c.filePos, "malformed xref subsection header")
		}
		start := parseUintToken(startTok)
		count := parseUintToken(countTok)

		for i := uint64(0); i < count; i++ {
			c.skipWhiteSpace()
			raw, err := c.read(20)
			if err != nil {
				return nil, newFileError(CategoryXref, c.filePos, "truncated xref entry")
			}
			offsetTok, genTok, typeTok, ok := parseClassicalEntry(raw)
			if !ok {
				return nil, newFileError(CategoryXref, c.filePos-20, "malformed 20-byte xref entry")
			}

			num := uint32(start + i)
			ref := Reference{Number: num, Generation: uint16(genTok)}
			if table.has(ref) || table.hasCompressed(num) {
				continue
			}
			switch typeTok {
			case 'n':
				table.entries[ref] = xrefEntry{Kind: xrefInUse, Offset: offsetTok}
			case 'f':
				// keyed at generation 0, like the free entries of xref streams;
				// the generation field is kept as NextFreeGen
				freeRef := Reference{Number: num}
				if !table.has(freeRef) {
					table.entries[freeRef] = xrefEntry{Kind: xrefFree, NextFreeID: uint32(offsetTok), NextFreeGen: uint16(genTok)}
				}
			default:
				return nil, newFileError(CategoryXref, c.filePos, "invalid xref entry type %q", typeTok)
			}
		}
	}

	c.skipWhiteSpace()
	obj, err := c.parseObject()
	if err != nil {
		return nil, err
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, newFileError(CategoryXref, c.filePos, "trailer is not a dictionary")
	}
	return trailer, nil
}

// parseClassicalEntry parses one 20-byte classical xref entry of the form
// "<10-digit offset> <5-digit generation> <n|f>" followed by a 2-byte EOL.
func parseClassicalEntry(raw []byte) (offset int64, gen int64, kind byte, ok bool) {
	if len(raw) != 20 {
		return 0, 0, 0, false
	}
	offField := raw[0:10]
	genField := raw[11:16]
	kindByte := raw[17]
	if kindByte != 'n' && kindByte != 'f' {
		// tolerate an off-by-one in spacing seen in some malformed writers
		for _, idx := range []int{16, 18} {
			if raw[idx] == 'n' || raw[idx] == 'f' {
				kindByte = raw[idx]
				break
			}
		}
	}
	o, err1 := parseDigits(offField)
	g, err2 := parseDigits(genField)
	if err1 != nil || err2 != nil {
		return 0, 0, 0, false
	}
	return o, g, kindByte, true
}

func parseDigits(b []byte) (int64, error) {
	var v int64
	seenDigit := false
	for _, c := range b {
		if c == ' ' {
			if seenDigit {
				return 0, fmt.Errorf("embedded space in numeric field")
			}
			continue
		}
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid digit %q", c)
		}
		seenDigit = true
		v = v*10 + int64(c-'0')
	}
	return v, nil
}

func parseUintToken(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v*10 + uint64(c-'0')
	}
	return v
}

// readXRefStreamSection reads a PDF 1.5+ cross-reference stream (spec §4.5,
// "Cross-reference stream").
func readXRefStreamSection(c *cursor, table *xrefTable) (Dict, error) {
	ref, err := c.readIndirectHeader()
	_ = ref
	if err != nil {
		return nil, err
	}

	c.skipWhiteSpace()
	obj, err := c.parseObject()
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(Dict)
	if !ok {
		return nil, newFileError(CategoryXref, c.filePos, "xref stream object is not a dictionary")
	}

	typeName, _ := dict["Type"].(Name)
	if typeName != "XRef" {
		return nil, newFileError(CategoryXref, c.filePos, "expected /Type /XRef, got %q", typeName)
	}

	raw, err := readStreamBody(c, dict)
	if err != nil {
		return nil, err
	}
	decoded, err := decodeFiltersDirect(dict, raw)
	if err != nil {
		return nil, err
	}

	size, _ := dict["Size"].(Integer)
	widths, ok := dict["W"].(Array)
	if !ok || len(widths) != 3 {
		return nil, newFileError(CategoryXref, c.filePos, "/W must be an array of 3 integers")
	}
	w := [3]int{}
	for i := 0; i < 3; i++ {
		n, ok := widths[i].(Integer)
		if !ok || n < 0 || n > 8 {
			return nil, newFileError(CategoryXref, c.filePos, "invalid /W entry")
		}
		w[i] = int(n)
	}

	var index []int64
	if idxArr, ok := dict["Index"].(Array); ok {
		for _, v := range idxArr {
			n, ok := v.(Integer)
			if !ok {
				return nil, newFileError(CategoryXref, c.filePos, "invalid /Index entry")
			}
			index = append(index, int64(n))
		}
	} else {
		index = []int64{0, int64(size)}
	}
	if len(index)%2 != 0 {
		return nil, newFileError(CategoryXref, c.filePos, "/Index must have an even number of entries")
	}

	recordWidth := w[0] + w[1] + w[2]
	pos := 0
	readField := func(width int) int64 {
		if width == 0 {
			return -1 // caller substitutes the default
		}
		var v int64
		for i := 0; i < width; i++ {
			if pos >= len(decoded) {
				return -1
			}
			v = v<<8 | int64(decoded[pos])
			pos++
		}
		return v
	}

	for i := 0; i+1 < len(index); i += 2 {
		start := index[i]
		count := index[i+1]
		for j := int64(0); j < count; j++ {
			if pos+recordWidth > len(decoded) {
				return nil, newFileError(CategoryXref, c.filePos, "xref stream record data is shorter than its /Index and /W declare")
			}
			typ := readField(w[0])
			if w[0] == 0 {
				typ = 1
			}
			f1 := readField(w[1])
			if w[1] == 0 {
				f1 = 0
			}
			f2 := readField(w[2])
			if w[2] == 0 {
				f2 = 0
			}

			num := uint32(start + j)
			switch typ {
			case 0:
				ref := Reference{Number: num}
				if !table.has(ref) && !table.hasCompressed(num) {
					table.entries[ref] = xrefEntry{Kind: xrefFree, NextFreeID: uint32(f1), NextFreeGen: uint16(f2)}
				}
			case 1:
				ref := Reference{Number: num, Generation: uint16(f2)}
				if !table.has(ref) && !table.hasCompressed(num) {
					table.entries[ref] = xrefEntry{Kind: xrefInUse, Offset: f1}
				}
			case 2:
				ref := Reference{Number: num}
				if !table.has(ref) && !table.hasCompressed(num) {
					table.entries[ref] = xrefEntry{Kind: xrefCompressed, ObjStmID: uint32(f1), ObjStmIdx: int(f2)}
				}
			default:
				return nil, newFileError(CategoryXref, c.filePos, "invalid xref stream entry type %d", typ)
			}
		}
	}

	return dict, nil
}
