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

import "github.com/go-playground/validator/v10"

// StrictMode controls how [Open] reacts to recoverable parse anomalies
// (spec §7's local-recovery rules).
type StrictMode string

const (
	// ModeLenient applies the local-recovery rules in spec §7 and never
	// fails the open merely because recovery was needed; some recoveries
	// are recorded as [Diagnostic] entries. This is the default.
	ModeLenient StrictMode = "lenient"

	// ModeStrict differs from ModeLenient only in that [Open] fails when
	// setting up decryption fails. Other recoveries (a missing or wrong
	// stream /Length, a missing endobj) are applied in both modes.
	ModeStrict StrictMode = "strict"
)

// OpenOptions configures [Open]. The zero value (or a nil *OpenOptions
// passed to Open) selects lenient parsing, an unbounded object cache, and
// an empty password.
type OpenOptions struct {
	// Mode selects the reader's tolerance for recoverable anomalies.
	Mode StrictMode `validate:"omitempty,oneof=lenient strict"`

	// CacheSize bounds the number of resolved indirect objects kept in the
	// LRU object cache. Zero (the default) means unbounded, matching spec
	// §5's "the cache is never required to evict entries" default.
	CacheSize int `validate:"gte=0"`

	// Password is passed to the document's standard security handler as the
	// user password from which the file key is derived; it is not tried as
	// an owner password and is not checked against /U. An empty string
	// opens a document protected only by an owner password (the common
	// case for permission-restricted, but not content-encrypted, PDFs).
	// This reader never performs a brute-force password search: a
	// single caller-supplied candidate is tried, never a dictionary or
	// keyspace (SPEC_FULL.md §C.4).
	Password string
}

var validate = validator.New()

// normalizeOpenOptions validates opts (if non-nil) and returns a fully
// populated OpenOptions, substituting every documented default.
func normalizeOpenOptions(opts *OpenOptions) (OpenOptions, error) {
	if opts == nil {
		return OpenOptions{Mode: ModeLenient}, nil
	}
	if err := validate.Struct(opts); err != nil {
		return OpenOptions{}, &MalformedFileError{Err: err}
	}
	out := *opts
	if out.Mode == "" {
		out.Mode = ModeLenient
	}
	return out, nil
}
