package pipeline

import (
	"testing"

	"github.com/sarchlab/apexsim/insts"
)

func TestLSQEnqueueAssignsIDsAndRespectsCapacity(t *testing.T) {
	q := NewLSQ(2)
	id1, ok := q.Enqueue(LSQEntry{Op: insts.OpLOAD})
	if !ok {
		t.Fatal("Enqueue failed with room available")
	}
	id2, ok := q.Enqueue(LSQEntry{Op: insts.OpSTORE})
	if !ok {
		t.Fatal("Enqueue failed with room available")
	}
	if id1 == id2 {
		t.Fatal("Enqueue should assign distinct IDs")
	}
	if !q.Full() {
		t.Fatal("queue should be full at capacity")
	}
	if _, ok := q.Enqueue(LSQEntry{}); ok {
		t.Fatal("Enqueue should fail once full")
	}
}

func TestLSQHeadAndRetireInOrder(t *testing.T) {
	q := NewLSQ(4)
	id1, _ := q.Enqueue(LSQEntry{Op: insts.OpLOAD})
	q.Enqueue(LSQEntry{Op: insts.OpSTORE})

	head := q.Head()
	if head == nil || head.ID != id1 {
		t.Fatal("Head() should return the oldest entry")
	}

	q.RetireHead()
	if q.Len() != 1 {
		t.Fatalf("Len() after RetireHead = %d, want 1", q.Len())
	}
	if q.Head().Op != insts.OpSTORE {
		t.Fatal("Head() after RetireHead should advance to the next entry")
	}
}

func TestLSQFindAndFlushCFIDs(t *testing.T) {
	q := NewLSQ(4)
	id1, _ := q.Enqueue(LSQEntry{Op: insts.OpLOAD, CFID: 1})
	id2, _ := q.Enqueue(LSQEntry{Op: insts.OpSTORE, CFID: 2})

	if q.Find(id1) == nil {
		t.Fatal("Find should locate an enqueued entry")
	}

	q.FlushCFIDs([]int{1})
	if q.Find(id1) != nil {
		t.Fatal("flushed entry should no longer be found")
	}
	if q.Find(id2) == nil {
		t.Fatal("non-flushed entry should survive")
	}
}
