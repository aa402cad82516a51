package pdf

import "testing"

func TestNormalizeOpenOptionsNilDefaults(t *testing.T) {
	got, err := normalizeOpenOptions(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Mode != ModeLenient {
		t.Fatalf("expected ModeLenient default, got %q", got.Mode)
	}
	if got.CacheSize != 0 {
		t.Fatalf("expected CacheSize 0 default, got %d", got.CacheSize)
	}
}

func TestNormalizeOpenOptionsEmptyModeDefaults(t *testing.T) {
	got, err := normalizeOpenOptions(&OpenOptions{CacheSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Mode != ModeLenient {
		t.Fatalf("expected ModeLenient default for empty Mode, got %q", got.Mode)
	}
	if got.CacheSize != 10 {
		t.Fatalf("expected CacheSize 10, got %d", got.CacheSize)
	}
}

func TestNormalizeOpenOptionsStrictMode(t *testing.T) {
	got, err := normalizeOpenOptions(&OpenOptions{Mode: ModeStrict})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Mode != ModeStrict {
		t.Fatalf("expected ModeStrict to be preserved, got %q", got.Mode)
	}
}

func TestNormalizeOpenOptionsRejectsInvalidMode(t *testing.T) {
	_, err := normalizeOpenOptions(&OpenOptions{Mode: "bogus"})
	if err == nil {
		t.Fatal("expected validation error for invalid Mode")
	}
	var mfe *MalformedFileError
	if !asMalformed(err, &mfe) {
		t.Fatalf("expected *MalformedFileError, got %T: %v", err, err)
	}
}

func TestNormalizeOpenOptionsRejectsNegativeCacheSize(t *testing.T) {
	_, err := normalizeOpenOptions(&OpenOptions{CacheSize: -1})
	if err == nil {
		t.Fatal("expected validation error for negative CacheSize")
	}
}

func asMalformed(err error, target **MalformedFileError) bool {
	mfe, ok := err.(*MalformedFileError)
	if ok {
		*target = mfe
	}
	return ok
}
