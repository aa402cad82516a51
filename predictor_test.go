package pdf

import "testing"

func TestPNGPredictorRoundTrip(t *testing.T) {
	columns := 4
	bpp := 1
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	encoded, err := pngPredictorEncode(raw, columns, bpp)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := pngPredictorDecode(encoded, columns, bpp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, raw)
	}
}

func TestTIFFPredictorRoundTrip(t *testing.T) {
	columns := 6
	bpp := 2
	raw := []byte{10, 20, 30, 40, 50, 60, 1, 2, 3, 4, 5, 6}

	encoded, err := tiffPredictorEncode(raw, columns, bpp)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := tiffPredictorDecode(encoded, columns, bpp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, raw)
	}
}

func TestApplyStreamPredictorNoOp(t *testing.T) {
	data := []byte{1, 2, 3}
	out, err := applyStreamPredictor(nil, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != string(data) {
		t.Fatalf("expected passthrough, got %v", out)
	}

	out, err = applyStreamPredictor(Dict{"Predictor": Integer(1)}, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != string(data) {
		t.Fatalf("expected passthrough for predictor 1, got %v", out)
	}
}

func TestApplyStreamPredictorPNG(t *testing.T) {
	columns := 3
	raw := []byte{1, 2, 3, 4, 5, 6}
	encoded, err := pngPredictorEncode(raw, columns, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parms := Dict{
		"Predictor":        Integer(15),
		"Colors":           Integer(1),
		"BitsPerComponent": Integer(8),
		"Columns":          Integer(columns),
	}
	got, err := applyStreamPredictor(parms, encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("round trip mismatch via DecodeParms: got %v, want %v", got, raw)
	}
}

func TestPredictorDecodeUnsupported(t *testing.T) {
	_, err := predictorDecode([]byte{0}, 99, 1, 8, 1)
	if err == nil {
		t.Fatal("expected error for unsupported predictor value")
	}
}
