package pdf

import (
	"bytes"
	"strings"
	"testing"
)

func classicalXrefFixture() string {
	var b strings.Builder
	b.WriteString("xref\n")
	b.WriteString("0 4\n")
	b.WriteString("0000000000 65535 f \n")
	b.WriteString("0000000017 00000 n \n")
	b.WriteString("0000000066 00000 n \n")
	b.WriteString("0000000126 00000 n \n")
	b.WriteString("trailer\n")
	b.WriteString("<< /Size 4 /Root 1 0 R >>\n")
	return b.String()
}

func TestReadClassicalXRef(t *testing.T) {
	src := classicalXrefFixture()
	c, err := newCursor(bytes.NewReader([]byte(src)))
	if err != nil {
		t.Fatalf("newCursor: %v", err)
	}

	table, err := readXRef(c, 0)
	if err != nil {
		t.Fatalf("readXRef: %v", err)
	}

	e, ok := table.lookup(Reference{Number: 1})
	if !ok {
		t.Fatal("expected object 1 to be present")
	}
	if e.Kind != xrefInUse || e.Offset != 17 {
		t.Fatalf("object 1: got %+v", e)
	}

	e0, ok := table.lookup(Reference{Number: 0})
	if !ok || e0.Kind != xrefFree {
		t.Fatalf("object 0: expected free entry, got %+v (ok=%v)", e0, ok)
	}

	root, ok := table.trailer["Root"]
	if !ok {
		t.Fatal("expected /Root in trailer")
	}
	ref, ok := root.(Reference)
	if !ok || ref.Number != 1 {
		t.Fatalf("expected /Root to be 1 0 R, got %v", root)
	}
}

func TestXrefTableFirstSectionWins(t *testing.T) {
	table := newXRefTable()
	ref := Reference{Number: 5}
	table.entries[ref] = xrefEntry{Kind: xrefInUse, Offset: 100}

	// merge an older classical section listing object 5 at another offset;
	// readClassicalXRefSection checks has()/hasCompressed() before
	// inserting, so the newer entry must survive.
	older := "xref\n5 1\n0000000200 00000 n \ntrailer\n<< /Size 6 >>\n"
	c, err := newCursor(bytes.NewReader([]byte(older)))
	if err != nil {
		t.Fatalf("newCursor: %v", err)
	}
	if _, err := readClassicalXRefSection(c, table); err != nil {
		t.Fatalf("readClassicalXRefSection: %v", err)
	}

	if table.has(ref) {
		// an older section must not clobber an already-resolved entry
		e, _ := table.lookup(ref)
		if e.Offset != 100 {
			t.Fatalf("expected first-section-wins, got offset %d", e.Offset)
		}
	} else {
		t.Fatal("expected entry to be present")
	}
}
