package pdf

import (
	"encoding/binary"
	"testing"
)

func TestDecodeCCITTFaxWrapsTIFFHeader(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	parms := Dict{
		"K":       Integer(-1),
		"Columns": Integer(1728),
		"Height":  Integer(100),
	}

	out, err := decodeCCITTFax(data, parms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const headerLen = 2 + 2 + 4 + 2 + 8*12 + 2
	if len(out) != headerLen+len(data) {
		t.Fatalf("expected %d header bytes + %d data bytes, got %d total", headerLen, len(data), len(out))
	}
	if string(out[:2]) != "II" {
		t.Fatalf("expected little-endian byte order marker, got %q", out[:2])
	}
	if v := binary.LittleEndian.Uint16(out[2:4]); v != 42 {
		t.Fatalf("expected TIFF version 42, got %d", v)
	}
	if v := binary.LittleEndian.Uint16(out[8:10]); v != 8 {
		t.Fatalf("expected 8 IFD tags, got %d", v)
	}

	// first tag entry is ImageWidth (256), LONG(4), count 1, value = Columns
	if v := binary.LittleEndian.Uint16(out[10:12]); v != 256 {
		t.Fatalf("expected first tag 256 (ImageWidth), got %d", v)
	}
	if v := binary.LittleEndian.Uint32(out[18:22]); v != 1728 {
		t.Fatalf("expected width 1728, got %d", v)
	}

	// payload itself must immediately follow the fixed-size header
	if string(out[headerLen:]) != string(data) {
		t.Fatalf("expected original data appended after header, got %v", out[headerLen:])
	}
}

func TestDecodeCCITTFaxGroup3Default(t *testing.T) {
	out, err := decodeCCITTFax([]byte{1}, Dict{"Columns": Integer(1728), "Height": Integer(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// fourth tag entry is Compression (259); its value is the CCITT group
	compressionEntryOffset := 10 + 3*12
	if v := binary.LittleEndian.Uint16(out[compressionEntryOffset : compressionEntryOffset+2]); v != 259 {
		t.Fatalf("expected Compression tag at this offset, got %d", v)
	}
	group := binary.LittleEndian.Uint32(out[compressionEntryOffset+8 : compressionEntryOffset+12])
	if group != 3 {
		t.Fatalf("expected group 3 (K != -1), got %d", group)
	}
}
