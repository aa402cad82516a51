package pdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeGetter resolves references from an in-memory map, for testing the
// Getter-consuming helpers without a real Document.
type fakeGetter map[Reference]Object

func (f fakeGetter) Get(ref Reference, canObjStm bool) (Object, error) {
	obj, ok := f[ref]
	if !ok {
		return Null{}, nil
	}
	return obj, nil
}

func TestResolveDirectObject(t *testing.T) {
	g := fakeGetter{}
	got, err := Resolve(g, Integer(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Integer(42) {
		t.Fatalf("expected Integer(42), got %v", got)
	}
}

func TestResolveChasesReferenceChain(t *testing.T) {
	ref1 := Reference{Number: 1}
	ref2 := Reference{Number: 2}
	g := fakeGetter{
		ref1: ref2,
		ref2: Name("done"),
	}
	got, err := Resolve(g, ref1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Name("done") {
		t.Fatalf("expected Name(done), got %v", got)
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	ref1 := Reference{Number: 1}
	ref2 := Reference{Number: 2}
	g := fakeGetter{
		ref1: ref2,
		ref2: ref1,
	}
	_, err := Resolve(g, ref1)
	if err == nil {
		t.Fatal("expected error for reference cycle")
	}
}

func TestGetIntegerRoundsReal(t *testing.T) {
	g := fakeGetter{}
	got, err := GetInteger(g, Real(3.6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected rounding to 4, got %v", got)
	}
}

func TestGetIntegerWrongTypeErrors(t *testing.T) {
	g := fakeGetter{}
	_, err := GetInteger(g, Name("not a number"))
	if err == nil {
		t.Fatal("expected error for wrong type")
	}
}

func TestGetNumberAcceptsIntegerAndReal(t *testing.T) {
	g := fakeGetter{}
	n, err := GetNumber(g, Integer(5))
	if err != nil || n != 5 {
		t.Fatalf("GetNumber(Integer): got %v, %v", n, err)
	}
	n, err = GetNumber(g, Real(5.5))
	if err != nil || n != 5.5 {
		t.Fatalf("GetNumber(Real): got %v, %v", n, err)
	}
}

func TestGetFloatArray(t *testing.T) {
	g := fakeGetter{}
	arr := Array{Integer(1), Real(2.5), Integer(3)}
	got, err := GetFloatArray(g, arr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 2.5, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GetFloatArray mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckDictTypeMismatch(t *testing.T) {
	g := fakeGetter{}
	dict := Dict{"Type": Name("Page")}
	if err := CheckDictType(g, dict, "Catalog"); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if err := CheckDictType(g, dict, "Page"); err != nil {
		t.Fatalf("unexpected error for matching type: %v", err)
	}
}

func TestGetDictTypedAllowsMissingType(t *testing.T) {
	g := fakeGetter{}
	dict := Dict{"Count": Integer(0)}
	got, err := GetDictTyped(g, dict, "Pages")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["Count"] != Integer(0) {
		t.Fatalf("expected dict passthrough, got %v", got)
	}
}
