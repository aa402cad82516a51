package pdf

import "testing"

func TestExtractCatalogRequiredFields(t *testing.T) {
	g := fakeGetter{}
	dict := Dict{
		"Type":       Name("Catalog"),
		"Pages":      Reference{Number: 2},
		"PageLayout": Name("SinglePage"),
		"PageMode":   Name("UseOutlines"),
	}
	cat, err := ExtractCatalog(g, dict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Pages != (Reference{Number: 2}) {
		t.Fatalf("expected Pages 2 0 R, got %v", cat.Pages)
	}
	if cat.PageLayout != "SinglePage" {
		t.Fatalf("expected PageLayout SinglePage, got %v", cat.PageLayout)
	}
	if cat.PageMode != "UseOutlines" {
		t.Fatalf("expected PageMode UseOutlines, got %v", cat.PageMode)
	}
}

func TestExtractCatalogMissingPages(t *testing.T) {
	g := fakeGetter{}
	dict := Dict{"Type": Name("Catalog")}
	if _, err := ExtractCatalog(g, dict); err == nil {
		t.Fatal("expected error for missing /Pages")
	}
}

func TestExtractCatalogWrongType(t *testing.T) {
	g := fakeGetter{}
	dict := Dict{"Type": Name("Page"), "Pages": Reference{Number: 2}}
	if _, err := ExtractCatalog(g, dict); err == nil {
		t.Fatal("expected error for /Type mismatch")
	}
}
