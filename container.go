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
	"math"
)

// Getter resolves indirect object references (spec §4.6, component C6).
// *Document is the only implementation, but the interface lets the helper
// functions below be tested against a fake.
type Getter interface {
	// Get reads an object from the file. canObjStm controls whether the
	// object may be read out of an object stream. *Document passes false
	// only when fetching an object stream's own container, which can never
	// itself live in an object stream; Resolve always passes true.
	Get(ref Reference, canObjStm bool) (Object, error)
}

const maxRefDepth = 16

// Resolve follows a (possibly absent) chain of indirect references until it
// reaches a direct object, per spec §4.6. A reference cycle or a chain
// longer than maxRefDepth is reported as a [MalformedFileError].
func Resolve(r Getter, obj Object) (Object, error) {
	return resolve(r, obj, true)
}

func resolve(r Getter, obj Object, canObjStm bool) (Object, error) {
	ref, isReference := obj.(Reference)
	if !isReference {
		return obj, nil
	}

	origRef := ref
	for count := 0; ; count++ {
		if count > maxRefDepth {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("too many levels of indirection"),
				Loc: []string{"object " + origRef.String()},
			}
		}
		next, err := r.Get(ref, canObjStm)
		if err != nil {
			return nil, err
		}
		ref, isReference = next.(Reference)
		if !isReference {
			return next, nil
		}
	}
}

// resolveAndCast resolves obj and asserts its concrete type. A Null (or
// missing) object yields the zero value of T without error.
func resolveAndCast[T Object](r Getter, obj Object) (x T, err error) {
	resolved, err := Resolve(r, obj)
	if err != nil {
		return x, err
	}
	if resolved == nil {
		return x, nil
	}
	if _, isNull := resolved.(Null); isNull {
		return x, nil
	}

	x, ok := resolved.(T)
	if ok {
		return x, nil
	}
	return x, &MalformedFileError{Err: fmt.Errorf("expected %T but got %T", x, resolved)}
}

// Helper functions resolving an object to a specific concrete type, per
// spec §4.6's "typed getters". Each calls Resolve first; a `null` (or
// missing) object yields the zero value without error; any other type
// mismatch is a [MalformedFileError].
var (
	GetArray     = resolveAndCast[Array]
	GetBoolean   = resolveAndCast[Boolean]
	GetDict      = resolveAndCast[Dict]
	GetName      = resolveAndCast[Name]
	GetReal      = resolveAndCast[Real]
	GetStreamObj = resolveAndCast[*Stream]
	GetString    = resolveAndCast[String]
)

// GetInteger resolves obj and returns it as an Integer. Real values are
// rounded to the nearest integer, matching the PDF spec's general leniency
// about integer/real interchangeability.
func GetInteger(r Getter, obj Object) (Integer, error) {
	resolved, err := Resolve(r, obj)
	if err != nil || resolved == nil {
		return 0, err
	}
	switch x := resolved.(type) {
	case Integer:
		return x, nil
	case Real:
		return Integer(math.Round(float64(x))), nil
	case Null:
		return 0, nil
	default:
		return 0, &MalformedFileError{Err: fmt.Errorf("expected Integer but got %T", resolved)}
	}
}

// GetNumber resolves obj and returns it as a float64, accepting both
// Integer and Real.
func GetNumber(r Getter, obj Object) (Real, error) {
	resolved, err := Resolve(r, obj)
	if err != nil || resolved == nil {
		return 0, err
	}
	switch x := resolved.(type) {
	case Integer:
		return Real(x), nil
	case Real:
		return x, nil
	case Null:
		return 0, nil
	default:
		return 0, &MalformedFileError{Err: fmt.Errorf("expected a number but got %T", resolved)}
	}
}

// GetFloatArray resolves obj and returns it as a slice of float64, each
// element itself resolved via GetNumber. A `null` object yields nil, nil.
func GetFloatArray(r Getter, obj Object) ([]float64, error) {
	array, err := GetArray(r, obj)
	if err != nil || array == nil {
		return nil, err
	}
	result := make([]float64, len(array))
	for i, item := range array {
		num, err := GetNumber(r, item)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		result[i] = float64(num)
	}
	return result, nil
}

// GetDictTyped resolves obj, checks it is a dictionary, and checks that its
// /Type entry (if present) equals tp.
func GetDictTyped(r Getter, obj Object, tp Name) (Dict, error) {
	dict, err := GetDict(r, obj)
	if dict == nil || err != nil {
		return nil, err
	}
	if err := CheckDictType(r, dict, tp); err != nil {
		return nil, err
	}
	return dict, nil
}

// CheckDictType checks that dict's /Type entry, if present, equals wantType.
func CheckDictType(r Getter, dict Dict, wantType Name) error {
	haveType, err := GetName(r, dict["Type"])
	if err != nil {
		return err
	}
	if haveType != "" && haveType != wantType {
		return &MalformedFileError{Err: fmt.Errorf("expected dict type %q, got %q", wantType, haveType)}
	}
	return nil
}

// GetStreamData resolves obj to a stream and returns its fully decoded
// content (spec §4.3's filter chain, including decryption when the
// document is open with a resolved encryption key).
//
// This is a convenience wrapper combining GetStreamObj and a *Document's
// DecodeStream method; it requires r to be a *Document since filter
// decoding additionally needs the stream's owning document for decryption.
func GetStreamData(doc *Document, obj Object) ([]byte, error) {
	stm, err := GetStreamObj(doc, obj)
	if err != nil || stm == nil {
		return nil, err
	}
	return doc.DecodeStream(stm)
}
