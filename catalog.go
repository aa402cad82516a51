package pdf

import (
	"errors"

	"golang.org/x/text/language"
)

// Catalog is a decoded PDF document catalog (the /Root dictionary), the
// entry point [Document.Catalog] returns. The only field every valid
// document has is Pages, the root of the page tree; everything else is
// carried through as a raw [Object] for callers that need it, since this
// reader has no content-stream, forms, or outline interpreter of its own to
// decode them further.
//
// The Document Catalog is documented in section 7.7.2 of PDF 32000-1:2008.
type Catalog struct {
	// Pages is the root of the document's page tree.
	Pages Reference

	PageLabels        Object
	Names             Object
	Dests             Object
	ViewerPreferences Object

	// PageLayout specifies the page layout to use when the document is
	// opened (e.g. SinglePage, OneColumn, TwoColumnLeft).
	PageLayout Name

	// PageMode specifies how the document should be displayed when opened
	// (e.g. UseNone, UseOutlines, FullScreen).
	PageMode Name

	Outlines       Reference
	Threads        Reference
	OpenAction     Object
	AA             Object
	URI            Object
	AcroForm       Object
	Metadata       Reference
	StructTreeRoot Object
	MarkInfo       Object

	// Lang specifies the natural language for all text in the document.
	Lang language.Tag

	SpiderInfo     Object
	OutputIntents  Object
	PieceInfo      Object
	OCProperties   Object
	Perms          Object
	Legal          Object
	Requirements   Object
	Collection     Object
	NeedsRendering bool
	DSS            Object
	AF             Object
	DPartRoot      Object
}

func ExtractCatalog(r Getter, obj Object) (*Catalog, error) {
	dict, err := GetDictTyped(r, obj, "Catalog")
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, &MalformedFileError{
			Err: errors.New("catalog dictionary is missing"),
		}
	}

	// Extract required Pages field
	pagesObj := dict["Pages"]
	if pagesObj == nil {
		return nil, &MalformedFileError{
			Err: errors.New("required field Pages is missing"),
		}
	}

	// Try to get Pages as Reference, but be permissive
	var pages Reference
	if ref, ok := pagesObj.(Reference); ok {
		pages = ref
	} else {
		// For malformed files, try to proceed anyway
		pages = Reference{}
	}

	// Extract optional fields
	pageLayout, _ := GetName(r, dict["PageLayout"])
	pageMode, _ := GetName(r, dict["PageMode"])

	var outlines Reference
	if ref, ok := dict["Outlines"].(Reference); ok {
		outlines = ref
	}

	var threads Reference
	if ref, ok := dict["Threads"].(Reference); ok {
		threads = ref
	}

	var metadata Reference
	if ref, ok := dict["Metadata"].(Reference); ok {
		metadata = ref
	}

	// Extract Lang field
	var lang language.Tag
	if dict["Lang"] != nil {
		langStr, err := GetTextString(r, dict["Lang"])
		if err == nil && langStr != "" {
			lang, _ = language.Parse(string(langStr))
		}
	}

	// Extract NeedsRendering
	needsRendering, _ := GetBoolean(r, dict["NeedsRendering"])

	return &Catalog{
		Pages:             pages,
		PageLabels:        dict["PageLabels"],
		Names:             dict["Names"],
		Dests:             dict["Dests"],
		ViewerPreferences: dict["ViewerPreferences"],
		PageLayout:        pageLayout,
		PageMode:          pageMode,
		Outlines:          outlines,
		Threads:           threads,
		OpenAction:        dict["OpenAction"],
		AA:                dict["AA"],
		URI:               dict["URI"],
		AcroForm:          dict["AcroForm"],
		Metadata:          metadata,
		StructTreeRoot:    dict["StructTreeRoot"],
		MarkInfo:          dict["MarkInfo"],
		Lang:              lang,
		SpiderInfo:        dict["SpiderInfo"],
		OutputIntents:     dict["OutputIntents"],
		PieceInfo:         dict["PieceInfo"],
		OCProperties:      dict["OCProperties"],
		Perms:             dict["Perms"],
		Legal:             dict["Legal"],
		Requirements:      dict["Requirements"],
		Collection:        dict["Collection"],
		NeedsRendering:    bool(needsRendering),
		DSS:               dict["DSS"],
		AF:                dict["AF"],
		DPartRoot:         dict["DPartRoot"],
	}, nil
}
