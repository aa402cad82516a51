// Copyright 2020 Jochen Voss <voss@seehuhn.de>
//
// Some code here, e.g. the PNG-predictor handling, follows the approach of
// https://pkg.go.dev/rsc.io/pdf . Use of this source code is governed by a
// BSD-style license, which is reproduced here:
//
//     Copyright (c) 2009 The Go Authors. All rights reserved.
//
//     Redistribution and use in source and binary forms, with or without
//     modification, are permitted provided that the following conditions are
//     met:
//
//        * Redistributions of source code must retain the above copyright
//     notice, this list of conditions and the following disclaimer.
//        * Redistributions in binary form must reproduce the above
//     copyright notice, this list of conditions and the following disclaimer
//     in the documentation and/or other materials provided with the
//     distribution.
//        * Neither the name of Google Inc. nor the names of its
//     contributors may be used to endorse or promote products derived from
//     this software without specific prior written permission.
//
//     THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
//     "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
//     LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
//     A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
//     OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
//     SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
//     LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
//     DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
//     THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
//     (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
//     OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package pdf

import "fmt"

// FilterInfo describes one stage of a stream's filter pipeline (spec §4.3).
type FilterInfo struct {
	Name  Name
	Parms Dict
}

// filterLongName normalizes the short-form aliases spec §4.3 requires
// decoders to accept.
var filterLongName = map[Name]Name{
	"A85": "ASCII85Decode",
	"AHx": "ASCIIHexDecode",
	"CCF": "CCITTFaxDecode",
	"DCT": "DCTDecode",
	"Fl":  "FlateDecode",
	"LZW": "LZWDecode",
	"RL":  "RunLengthDecode",
}

func normalizeFilterName(n Name) Name {
	if long, ok := filterLongName[n]; ok {
		return long
	}
	return n
}

type filterDecodeFunc func(data []byte, parms Dict) ([]byte, error)

var filterDecoders = map[Name]filterDecodeFunc{
	"FlateDecode":     decodeFlate,
	"LZWDecode":       decodeLZW,
	"ASCII85Decode":   decodeASCII85Filter,
	"ASCIIHexDecode":  decodeASCIIHexFilter,
	"RunLengthDecode": decodeRunLength,
	"CCITTFaxDecode":  decodeCCITTFax,
	"DCTDecode":       decodePassthrough,
	"JPXDecode":       decodePassthrough,
	"Crypt":           decodeUnsupported,
	"JBIG2Decode":     decodeUnsupported,
}

// extractFilterInfo reads a stream dictionary's /Filter and /DecodeParms
// entries, which must already be direct values (no indirect references) —
// callers that need to resolve indirect filter specs do so before calling
// this function.
func extractFilterInfo(dict Dict) ([]*FilterInfo, error) {
	parms := dict["DecodeParms"]
	if parms == nil {
		parms = dict["DP"]
	}

	var filters []*FilterInfo
	switch f := dict["Filter"].(type) {
	case nil:
		// pass
	case Name:
		pDict, _ := parms.(Dict)
		filters = append(filters, &FilterInfo{Name: normalizeFilterName(f), Parms: pDict})
	case Array:
		pa, _ := parms.(Array)
		for i, fi := range f {
			name, ok := fi.(Name)
			if !ok {
				return nil, newFileError(CategoryFilter, 0, "/Filter array element must be a Name, got %T", fi)
			}
			var pDict Dict
			if len(pa) > i {
				pDict, _ = pa[i].(Dict)
			}
			filters = append(filters, &FilterInfo{Name: normalizeFilterName(name), Parms: pDict})
		}
	default:
		return nil, newFileError(CategoryFilter, 0, "invalid /Filter field of type %T", f)
	}
	return filters, nil
}

// decodeFiltersDirect decodes a stream's raw bytes through every filter
// named in its dictionary, using only dictionary values already resolved to
// direct objects. This is used by the xref engine, which cannot resolve
// indirect references before the xref table it is building exists.
func decodeFiltersDirect(dict Dict, raw []byte) ([]byte, error) {
	filters, err := extractFilterInfo(dict)
	if err != nil {
		return nil, err
	}
	data := raw
	for _, fi := range filters {
		decode, ok := filterDecoders[fi.Name]
		if !ok {
			return nil, &FileError{Kind: CategoryUnsupportedFilter, Err: fmt.Errorf("unrecognized filter %q", fi.Name)}
		}
		data, err = decode(data, fi.Parms)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// decodeFilters decodes a stream's raw bytes through every filter named in
// its dictionary, resolving indirect /Filter and /DecodeParms entries (and
// the /DecodeParms array elements) through r first. Used by the document
// reader, where filter specs may legally be indirect references.
func decodeFilters(r Getter, dict Dict, raw []byte) ([]byte, error) {
	resolved := Dict{}
	filterObj, err := Resolve(r, dict["Filter"])
	if err != nil {
		return nil, err
	}
	resolved["Filter"] = filterObj

	parmsKey := "DecodeParms"
	parmsObj := dict[parmsKey]
	if parmsObj == nil {
		parmsKey = "DP"
		parmsObj = dict[parmsKey]
	}
	parmsObj, err = Resolve(r, parmsObj)
	if err != nil {
		return nil, err
	}
	if pa, ok := parmsObj.(Array); ok {
		resolvedArr := make(Array, len(pa))
		for i, p := range pa {
			rp, err := Resolve(r, p)
			if err != nil {
				return nil, err
			}
			resolvedArr[i] = rp
		}
		parmsObj = resolvedArr
	}
	resolved[Name(parmsKey)] = parmsObj

	return decodeFiltersDirect(resolved, raw)
}

// decodePassthrough implements DCTDecode/JPXDecode (spec §4.3): the payload
// is a standalone JPEG / JPEG 2000 bitstream and is returned unchanged. Full
// image decoding (as e.g. a renderer would need) is not performed here.
func decodePassthrough(data []byte, parms Dict) ([]byte, error) {
	return data, nil
}

// decodeUnsupported implements the Crypt/JBIG2Decode entries of spec §4.3,
// which are recognized by name but never implemented.
func decodeUnsupported(data []byte, parms Dict) ([]byte, error) {
	return nil, &FileError{Kind: CategoryUnsupportedFilter, Err: fmt.Errorf("filter not implemented")}
}
