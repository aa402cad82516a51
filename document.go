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
	"fmt"
	"io"

	"github.com/pdfshift/pdfsurge/crypt"
)

// Document is an open PDF file (spec §4.6, component C6): the xref table
// has been reconstructed and the trailer is available, but every other
// object is resolved lazily through Get.
type Document struct {
	c       *cursor
	xref    *xrefTable
	version Version
	cache   *lruCache
	opts    OpenOptions

	crypt      *crypt.Handler
	encryptRef Reference // /Encrypt's own reference; never itself decrypted

	diagnostics []Diagnostic
}

var _ Getter = (*Document)(nil)

// Open reads the cross-reference table and trailer of r and returns a
// ready Document. opts may be nil to select the documented defaults (spec
// §6's "open(source) -> Document | Error").
func Open(r io.ReadSeeker, opts *OpenOptions) (*Document, error) {
	normalized, err := normalizeOpenOptions(opts)
	if err != nil {
		return nil, err
	}

	c, err := newCursor(r)
	if err != nil {
		return nil, err
	}

	version, err := c.readHeaderVersion()
	if err != nil {
		return nil, err
	}

	startOffset, err := c.locateStartXRef()
	if err != nil {
		return nil, err
	}

	xref, err := readXRef(c, startOffset)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		c:       c,
		xref:    xref,
		version: version,
		cache:   newCache(normalized.CacheSize),
		opts:    normalized,
	}

	if encObj, ok := xref.trailer["Encrypt"]; ok {
		if err := doc.setupEncryption(encObj); err != nil {
			if normalized.Mode == ModeStrict {
				return nil, err
			}
			// is_encrypted() must never depend on whether decryption
			// succeeds (SPEC_FULL.md §C.4); record the failure instead of
			// refusing to open the file.
			doc.diag(DiagnosticWarning, 0, "encryption setup failed: %v", err)
		}
	}

	return doc, nil
}

// Version returns the PDF version declared in the file header.
func (d *Document) Version() Version { return d.version }

// IsEncrypted reports whether the trailer carries an /Encrypt entry,
// regardless of whether the configured password actually unlocks it.
func (d *Document) IsEncrypted() bool {
	_, ok := d.xref.trailer["Encrypt"]
	return ok
}

// Metadata resolves and returns the trailer's /Info dictionary, or nil if
// it is absent or cannot be read as a dictionary.
func (d *Document) Metadata() (Dict, error) {
	infoObj, ok := d.xref.trailer["Info"]
	if !ok {
		return nil, nil
	}
	dict, err := GetDict(d, infoObj)
	if err != nil {
		return nil, nil
	}
	return dict, nil
}

// Info decodes the trailer's /Info dictionary into the structured [Info]
// type; a convenience layered on top of Metadata.
func (d *Document) Info() (*Info, error) {
	dict, err := d.Metadata()
	if err != nil || dict == nil {
		return nil, err
	}
	return ExtractInfo(d, dict)
}

// Catalog resolves the trailer's /Root dictionary and decodes it into the
// structured [Catalog] type.
func (d *Document) Catalog() (*Catalog, error) {
	root, ok := d.xref.trailer["Root"]
	if !ok {
		return nil, newFileError(CategoryInvalidPdf, 0, "trailer is missing /Root")
	}
	return ExtractCatalog(d, root)
}

// PageCount walks the page tree rooted at the catalog's /Pages entry,
// counting leaves. A node is treated as an intermediate node if it has a
// /Kids array (regardless of /Type, which some writers omit) and as a page
// leaf otherwise.
func (d *Document) PageCount() (int, error) {
	catalog, err := d.Catalog()
	if err != nil {
		return 0, err
	}

	count := 0
	seen := map[Reference]bool{}
	var walk func(Object) error
	walk = func(obj Object) error {
		if ref, ok := obj.(Reference); ok {
			if seen[ref] {
				return newFileError(CategoryInvalidPdf, 0, "cycle in /Kids chain at %s", ref)
			}
			seen[ref] = true
		}
		dict, err := GetDict(d, obj)
		if err != nil || dict == nil {
			return err
		}
		kids, err := GetArray(d, dict["Kids"])
		if err != nil {
			return err
		}
		if kids == nil {
			count++
			return nil
		}
		for _, kid := range kids {
			if err := walk(kid); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(catalog.Pages); err != nil {
		return 0, err
	}
	return count, nil
}

// PageLayout resolves the catalog's /PageLayout entry (spec §6).
func (d *Document) PageLayout() (Name, error) {
	catalog, err := d.Catalog()
	if err != nil {
		return "", err
	}
	return catalog.PageLayout, nil
}

// PageMode resolves the catalog's /PageMode entry (spec §6).
func (d *Document) PageMode() (Name, error) {
	catalog, err := d.Catalog()
	if err != nil {
		return "", err
	}
	return catalog.PageMode, nil
}

// XrefSummary reports the entry-kind counts and /Prev offset chain of the
// reconstructed cross-reference table (SPEC_FULL.md §C.5), useful for
// diagnosing files that needed unusual recovery.
type XrefSummary struct {
	InUse, Free, Compressed int
	PrevChain               []int64
}

func (d *Document) XrefSummary() XrefSummary {
	var s XrefSummary
	for _, e := range d.xref.entries {
		switch e.Kind {
		case xrefInUse:
			s.InUse++
		case xrefFree:
			s.Free++
		case xrefCompressed:
			s.Compressed++
		}
	}
	s.PrevChain = append([]int64(nil), d.xref.prevChain...)
	return s
}

// Get implements [Getter]: it resolves a single level of indirection for
// ref (spec §4.6's fetch pipeline: cache, then xref, then Compressed via
// §4.5, else ObjectNotFound).
func (d *Document) Get(ref Reference, canObjStm bool) (Object, error) {
	if obj, ok := d.cache.Get(ref); ok {
		return obj, nil
	}

	entry, ok := d.xref.lookup(ref)
	if !ok {
		return nil, newFileError(CategoryObjectNotFound, 0, "object %s not found in xref", ref)
	}

	var obj Object
	var err error
	switch entry.Kind {
	case xrefInUse:
		obj, err = d.readInUseObject(ref, entry.Offset)
	case xrefCompressed:
		if !canObjStm {
			return nil, newFileError(CategoryObjectNotFound, 0, "object %s is compressed but cannot be resolved here", ref)
		}
		obj, err = d.readCompressedObject(entry)
	default:
		return nil, newFileError(CategoryObjectNotFound, 0, "object %s is free", ref)
	}
	if err != nil {
		return nil, err
	}

	d.cache.Put(ref, obj)
	return obj, nil
}

// readInUseObject implements the InUse branch of spec §4.6's fetch
// pipeline: seek to the offset, parse "<id> <gen> obj", the object value,
// an optional stream body, and "endobj" (tolerated if missing, per §7
// recovery rule (a)).
func (d *Document) readInUseObject(ref Reference, offset int64) (Object, error) {
	d.c.Seek(offset, 0)
	hdr, err := d.c.readIndirectHeader()
	if err != nil {
		return nil, err
	}
	if hdr.Number != ref.Number {
		return nil, newFileError(CategoryXref, offset, "xref offset %d holds object %d, expected %d", offset, hdr.Number, ref.Number)
	}

	d.c.skipWhiteSpace()
	parsed, err := d.c.parseObject()
	if err != nil {
		return nil, err
	}

	if dict, ok := parsed.(Dict); ok {
		raw, serr := readStreamBody(d.c, dict, d.resolveLength)
		if serr != nil {
			d.diag(DiagnosticInfo, offset, "tolerating stream body error for %s: %v", ref, serr)
			raw = nil
		}
		if raw != nil {
			if d.crypt != nil && ref != d.encryptRef {
				if dec, derr := d.crypt.DecryptStream(ref.Number, ref.Generation, raw); derr == nil {
					raw = dec
				}
			}
			parsed = &Stream{Dict: dict, Raw: raw}
		}
	}

	d.c.skipWhiteSpace()
	if tok := d.c.peek(6); len(tok) >= 6 && string(tok[:6]) == "endobj" {
		d.c.advance(6)
	}

	if d.crypt != nil && ref != d.encryptRef {
		parsed = d.decryptStrings(parsed, ref)
	}

	return parsed, nil
}

// resolveLength is the [lengthResolver] readInUseObject hands to
// readStreamBody: a /Length value that is itself an indirect reference is
// resolved through the document's normal Get pipeline.
func (d *Document) resolveLength(v Object) (Integer, bool, error) {
	ref, ok := v.(Reference)
	if !ok {
		return 0, false, nil
	}
	n, err := GetInteger(d, ref)
	return n, true, err
}

// decryptStrings recursively decrypts every String leaf of obj under ref's
// per-object key. Streams are skipped (their Raw bytes are decrypted once,
// directly in readInUseObject) but their dictionaries are still walked.
func (d *Document) decryptStrings(obj Object, ref Reference) Object {
	switch v := obj.(type) {
	case String:
		dec, err := d.crypt.DecryptString(ref.Number, ref.Generation, v.Data)
		if err != nil {
			return v
		}
		return String{Data: dec, Flavor: v.Flavor}
	case Array:
		out := make(Array, len(v))
		for i, e := range v {
			out[i] = d.decryptStrings(e, ref)
		}
		return out
	case Dict:
		out := make(Dict, len(v))
		for k, e := range v {
			out[k] = d.decryptStrings(e, ref)
		}
		return out
	case *Stream:
		if dict, ok := d.decryptStrings(v.Dict, ref).(Dict); ok {
			v.Dict = dict
		}
		return v
	default:
		return obj
	}
}

// readCompressedObject implements the Compressed branch of spec §4.6 /
// §4.5's "Compressed object resolution": fetch the container object
// stream, decode it, and parse the target object out of its payload
// without an "endobj" terminator.
func (d *Document) readCompressedObject(entry xrefEntry) (Object, error) {
	containerRef := Reference{Number: entry.ObjStmID}
	containerObj, err := d.Get(containerRef, false)
	if err != nil {
		return nil, err
	}
	stm, ok := containerObj.(*Stream)
	if !ok {
		return nil, newFileError(CategoryObjectNotFound, 0, "object stream container %s is not a stream", containerRef)
	}
	if err := CheckDictType(d, stm.Dict, "ObjStm"); err != nil {
		return nil, err
	}

	n, err := GetInteger(d, stm.Dict["N"])
	if err != nil {
		return nil, err
	}
	first, err := GetInteger(d, stm.Dict["First"])
	if err != nil {
		return nil, err
	}

	decoded, err := d.DecodeStream(stm)
	if err != nil {
		return nil, err
	}

	sub, err := newCursor(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}

	offsets := make([]int64, 0, n)
	for i := Integer(0); i < n; i++ {
		sub.skipWhiteSpace()
		idTok := sub.readToken(false)
		offTok := sub.readToken(false)
		if !isAllDigits(idTok) || !isAllDigits(offTok) {
			return nil, newFileError(CategoryXref, 0, "object stream %s declared /N=%d but its index pairs are truncated", containerRef, n)
		}
		offsets = append(offsets, int64(parseUintToken(offTok)))
	}

	if entry.ObjStmIdx < 0 || entry.ObjStmIdx >= len(offsets) {
		return nil, newFileError(CategoryXref, 0, "compressed object index %d out of range for %s (/N=%d)", entry.ObjStmIdx, containerRef, n)
	}

	sub.Seek(int64(first)+offsets[entry.ObjStmIdx], 0)
	return sub.parseObject()
}

// DecodeStream returns stm's fully filter-decoded payload, decoding and
// caching it on the Stream itself on first access (spec §5: "decoded bytes
// are retained in the object for the session").
func (d *Document) DecodeStream(stm *Stream) ([]byte, error) {
	if stm.hasDecoded {
		return stm.decoded, nil
	}
	decoded, err := decodeFilters(d, stm.Dict, stm.Raw)
	if err != nil {
		return nil, err
	}
	stm.decoded = decoded
	stm.hasDecoded = true
	return decoded, nil
}

// setupEncryption reads the trailer's resolved /Encrypt dictionary and
// derives a file encryption key via the crypt subpackage's standard
// security handler, using opts.Password as the sole candidate (this reader
// never brute-forces a password, per SPEC_FULL.md §C.4).
func (d *Document) setupEncryption(encObj Object) error {
	if ref, ok := encObj.(Reference); ok {
		d.encryptRef = ref
	}

	encDict, err := GetDict(d, encObj)
	if err != nil {
		return err
	}
	if encDict == nil {
		return fmt.Errorf("crypt: /Encrypt is present but not a dictionary")
	}

	filterName, _ := GetName(d, encDict["Filter"])
	if filterName != "" && filterName != "Standard" {
		return fmt.Errorf("crypt: unsupported security handler %q", filterName)
	}

	v, _ := GetInteger(d, encDict["V"])
	r, _ := GetInteger(d, encDict["R"])
	length, _ := GetInteger(d, encDict["Length"])
	if length == 0 {
		length = 40
	}
	oStr, _ := GetString(d, encDict["O"])
	uStr, _ := GetString(d, encDict["U"])
	pInt, _ := GetInteger(d, encDict["P"])

	encryptMetadata := true
	if _, present := encDict["EncryptMetadata"]; present {
		b, _ := GetBoolean(d, encDict["EncryptMetadata"])
		encryptMetadata = bool(b)
	}

	var oe, ue []byte
	if v >= 5 {
		oeStr, _ := GetString(d, encDict["OE"])
		ueStr, _ := GetString(d, encDict["UE"])
		oe = oeStr.Data
		ue = ueStr.Data
	}

	method := crypt.Method("")
	if v >= 4 {
		cf, _ := GetDict(d, encDict["CF"])
		stmFName, _ := GetName(d, encDict["StmF"])
		if stmFName == "" {
			stmFName = "StdCF"
		}
		cfDict, _ := GetDict(d, cf[stmFName])
		cfm, _ := GetName(d, cfDict["CFM"])
		switch cfm {
		case "AESV2":
			method = crypt.MethodAESV2
		case "AESV3":
			method = crypt.MethodAESV3
		case "V2":
			method = crypt.MethodRC4
		case "None":
			method = crypt.MethodIdentity
		}
	}

	var fileID []byte
	if idArr, err := GetArray(d, d.xref.trailer["ID"]); err == nil && len(idArr) > 0 {
		if s, ok := idArr[0].(String); ok {
			fileID = s.Data
		}
	}

	handler, err := crypt.NewHandler(crypt.Params{
		V:               int(v),
		R:               int(r),
		O:               oStr.Data,
		U:               uStr.Data,
		OE:              oe,
		UE:              ue,
		P:               int32(pInt),
		FileID:          fileID,
		KeyBytes:        int(length) / 8,
		EncryptMetadata: encryptMetadata,
		Method:          method,
		Password:        d.opts.Password,
	})
	if err != nil {
		return err
	}
	d.crypt = handler
	return nil
}
