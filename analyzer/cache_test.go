package analyzer

import "testing"

func TestLookupCacheDistinguishesMissesFromUnseen(t *testing.T) {
	c := newLookupCache[int]()

	if _, _, seen := c.get("a"); seen {
		t.Fatal("fresh cache reported a key as seen")
	}

	c.put("a", 42)
	v, found, seen := c.get("a")
	if !seen || !found || v != 42 {
		t.Fatalf("get(a) = (%v, %v, %v)", v, found, seen)
	}

	c.putNegative("b")
	_, found, seen = c.get("b")
	if !seen || found {
		t.Fatalf("negative entry: found=%v seen=%v, want found=false seen=true", found, seen)
	}

	if c.len() != 2 {
		t.Errorf("len = %d, want 2", c.len())
	}
}
