package pipeline

import "testing"

func TestCFIDPoolAllocIsOneBasedAndBounded(t *testing.T) {
	p := NewCFIDPool(7)
	seen := map[int]bool{}
	for i := 0; i < 7; i++ {
		cfid, ok := p.Alloc(uint64(i))
		if !ok {
			t.Fatalf("Alloc #%d should succeed within pool size", i)
		}
		if cfid < 1 || cfid > 7 {
			t.Fatalf("Alloc returned %d, want a 1-based CFID in [1,7]", cfid)
		}
		seen[cfid] = true
	}
	if len(seen) != 7 {
		t.Fatalf("expected 7 distinct CFIDs, got %d", len(seen))
	}
	if _, ok := p.Alloc(99); ok {
		t.Fatal("Alloc should fail once the pool is exhausted")
	}
}

func TestCFIDPoolLastInheritance(t *testing.T) {
	p := NewCFIDPool(7)
	if p.Last() != 0 {
		t.Fatalf("Last() = %d, want 0 before any branch", p.Last())
	}
	cfid, _ := p.Alloc(0x1000)
	if p.Last() != cfid {
		t.Fatalf("Last() = %d, want %d", p.Last(), cfid)
	}
}

func TestCFIDPoolRetireFreesSlot(t *testing.T) {
	p := NewCFIDPool(1)
	cfid, _ := p.Alloc(0)
	if _, ok := p.Alloc(0); ok {
		t.Fatal("pool of size 1 should be exhausted after one Alloc")
	}
	p.Retire(cfid)
	if _, ok := p.Alloc(0); !ok {
		t.Fatal("Alloc should succeed again after Retire frees the only slot")
	}
}

func TestCFIDPoolFlushFromKeepsOwnCFIDLiveForRetire(t *testing.T) {
	p := NewCFIDPool(7)
	a, _ := p.Alloc(0)
	b, _ := p.Alloc(0)
	c, _ := p.Alloc(0)

	flushed := p.FlushFrom(b)
	if len(flushed) != 2 || flushed[0] != b || flushed[1] != c {
		t.Fatalf("FlushFrom(%d) = %v, want [%d %d]", b, flushed, b, c)
	}
	if p.Last() != b {
		t.Fatalf("Last() after flush = %d, want %d (the still in-flight branch)", p.Last(), b)
	}
	if live := p.LiveSet(); len(live) != 2 || live[0] != a || live[1] != b {
		t.Fatalf("LiveSet() after flush = %v, want [%d %d]", live, a, b)
	}

	// b is still live (not yet retired): re-flushing it must not free c a
	// second time.
	again := p.FlushFrom(b)
	if len(again) != 1 || again[0] != b {
		t.Fatalf("re-FlushFrom(%d) = %v, want [%d] (c already freed)", b, again, b)
	}

	p.Retire(b)
	if live := p.LiveSet(); len(live) != 1 || live[0] != a {
		t.Fatalf("LiveSet() after Retire(%d) = %v, want [%d]", b, live, a)
	}
	if _, ok := p.Alloc(0); !ok {
		t.Fatal("Alloc should succeed after Retire frees b's slot")
	}
}
