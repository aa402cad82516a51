package pdf

import (
	"bytes"
	"fmt"
	"testing"
)

// buildMinimalPDF assembles a tiny, well-formed single-page PDF with a
// classical xref table, computing correct byte offsets so Open can locate
// every object through the reconstructed table.
func buildMinimalPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int64, 4) // index 0 unused (object 0 is always free)

	buf.WriteString("%PDF-1.7\n")

	offsets[1] = int64(buf.Len())
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = int64(buf.Len())
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = int64(buf.Len())
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R >>\nendobj\n")

	xrefStart := int64(buf.Len())
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\n")
	buf.WriteString(fmt.Sprintf("startxref\n%d\n%%%%EOF", xrefStart))

	return buf.Bytes()
}

func TestOpenMinimalPDF(t *testing.T) {
	data := buildMinimalPDF(t)
	doc, err := Open(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if doc.Version() != 1.7 {
		t.Fatalf("expected version 1.7, got %v", doc.Version())
	}
	if doc.IsEncrypted() {
		t.Fatal("expected unencrypted document")
	}

	catalog, err := doc.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if catalog.Pages != (Reference{Number: 2}) {
		t.Fatalf("expected /Pages to be 2 0 R, got %v", catalog.Pages)
	}

	count, err := doc.PageCount()
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 page, got %d", count)
	}

	summary := doc.XrefSummary()
	if summary.InUse != 3 || summary.Free != 1 {
		t.Fatalf("unexpected xref summary: %+v", summary)
	}
}

func TestOpenMissingRoot(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	xrefStart := int64(buf.Len())
	buf.WriteString("xref\n0 1\n0000000000 65535 f \n")
	buf.WriteString("trailer\n<< /Size 1 >>\n")
	buf.WriteString(fmt.Sprintf("startxref\n%d\n%%%%EOF", xrefStart))

	doc, err := Open(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := doc.Catalog(); err == nil {
		t.Fatal("expected error for missing /Root")
	}
}
