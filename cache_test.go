package pdf

import "testing"

func TestCachePutGetRoundTrip(t *testing.T) {
	c := newCache(0)
	ref := Reference{Number: 1}
	c.Put(ref, Integer(7))

	got, ok := c.Get(ref)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != Integer(7) {
		t.Fatalf("expected Integer(7), got %v", got)
	}
}

func TestCacheGetClonesDictSoCallersCannotCorruptIt(t *testing.T) {
	c := newCache(0)
	ref := Reference{Number: 1}
	c.Put(ref, Dict{"Type": Name("Page")})

	got, ok := c.Get(ref)
	if !ok {
		t.Fatal("expected cache hit")
	}
	dict := got.(Dict)
	dict["Type"] = Name("Corrupted")

	got2, _ := c.Get(ref)
	if got2.(Dict)["Type"] != Name("Page") {
		t.Fatalf("mutation through one Get result leaked into the cache: got %v", got2.(Dict)["Type"])
	}
}

func TestCacheGetClonesArraySoCallersCannotCorruptIt(t *testing.T) {
	c := newCache(0)
	ref := Reference{Number: 1}
	c.Put(ref, Array{Integer(1), Integer(2)})

	got, _ := c.Get(ref)
	arr := got.(Array)
	arr[0] = Integer(99)

	got2, _ := c.Get(ref)
	if got2.(Array)[0] != Integer(1) {
		t.Fatalf("mutation through one Get result leaked into the cache: got %v", got2.(Array)[0])
	}
}

func TestCacheEvictsLeastRecentlyUsedWhenBounded(t *testing.T) {
	c := newCache(2)
	r1, r2, r3 := Reference{Number: 1}, Reference{Number: 2}, Reference{Number: 3}
	c.Put(r1, Integer(1))
	c.Put(r2, Integer(2))
	c.Put(r3, Integer(3)) // evicts r1, the least recently used

	if c.Has(r1) {
		t.Fatal("expected r1 to have been evicted")
	}
	if !c.Has(r2) || !c.Has(r3) {
		t.Fatal("expected r2 and r3 to remain cached")
	}
}
