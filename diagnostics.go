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

// DiagnosticSeverity classifies a Diagnostic (SPEC_FULL §A.2).
type DiagnosticSeverity uint8

const (
	// DiagnosticInfo records a benign recovery, e.g. a missing endobj
	// tolerated per spec §7 local-recovery rule (a).
	DiagnosticInfo DiagnosticSeverity = iota
	// DiagnosticWarning records a recovery that may have lost data, e.g. a
	// malformed date string returned as raw bytes (§7 rule (b)).
	DiagnosticWarning
)

// Diagnostic is a structured record of a recoverable anomaly encountered
// while reading a document. The reader never logs; it accumulates these on
// the Document instead, so an embedding application decides whether and how
// to surface them (SPEC_FULL §A.2).
type Diagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	Pos      int64
}

func (d *Document) diag(sev DiagnosticSeverity, pos int64, format string, args ...any) {
	d.diagnostics = append(d.diagnostics, Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Diagnostics returns every anomaly recorded so far during this session.
func (d *Document) Diagnostics() []Diagnostic {
	return d.diagnostics
}
