// Package pdf implements a read-only core for PDF files: a lexer/parser for
// PDF syntax, cross-reference table reconstruction (both the classical
// tabular form and the PDF 1.5+ compressed-stream form), an indirect-object
// resolver with session-scoped caching, and a filter-chain decoder (Flate,
// LZW, ASCII85, ASCIIHex, RunLength, plus PNG/TIFF predictors).
//
// This package treats a PDF file as a container of indirect objects
// (typically Dictionaries and Streams), addressed by (id, generation) pairs
// and reachable through the cross-reference table rather than necessarily
// in the order they appear on disk.
//
//	doc, err := pdf.Open(f, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog, err := doc.Catalog()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	... use catalog to locate objects in the file ...
//
// The following types implement the [Object] interface and are the
// universal currency of this package:
//
//	Array
//	Boolean
//	Dict
//	Integer
//	Name
//	Null
//	Real
//	Reference
//	*Stream
//	String
//
// There is no write path: this package never produces PDF output, and the
// object model above carries no encoding machinery.
package pdf
