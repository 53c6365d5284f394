package pipeline

import "github.com/sarchlab/apexsim/insts"

// LSQEntry is a single load/store-queue entry: a memory operation waiting
// for address generation and then in-order commit at the LSQ head (spec
// §3/§4.6).
type LSQEntry struct {
	ID  int // stable identifier, referenced by IQEntry.LSQSlot
	PC  uint64
	Op  insts.Op // OpLOAD or OpSTORE

	Address   int
	AddrValid bool

	Rd         int // LOAD only: architectural destination, for B-RAT commit
	DestPhys   int // LOAD only; -1 for STORE
	StoreValue int // STORE only: the value to write

	CFID    int
	ROBSlot int // ROB slot this op shares, for the head-match gate
}

// LSQ is the in-order load/store queue: a FIFO keyed by dispatch order.
type LSQ struct {
	capacity int
	entries  []*LSQEntry
	nextID   int
}

// NewLSQ builds an LSQ with the given capacity.
func NewLSQ(capacity int) *LSQ {
	return &LSQ{capacity: capacity}
}

// Len returns the number of in-flight memory operations.
func (q *LSQ) Len() int {
	return len(q.entries)
}

// Full reports whether the queue is at capacity.
func (q *LSQ) Full() bool {
	return len(q.entries) >= q.capacity
}

// Enqueue admits entry at the tail, assigning it a stable ID, and returns
// that ID for the dispatching IQ entry to reference. Returns ok=false if
// the queue is full.
func (q *LSQ) Enqueue(entry LSQEntry) (id int, ok bool) {
	if q.Full() {
		return 0, false
	}
	entry.ID = q.nextID
	q.nextID++
	q.entries = append(q.entries, &entry)
	return entry.ID, true
}

// Find returns the entry with the given ID, or nil if it is not present
// (e.g. already flushed).
func (q *LSQ) Find(id int) *LSQEntry {
	for _, e := range q.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Head returns the oldest entry, or nil if the queue is empty.
func (q *LSQ) Head() *LSQEntry {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// RetireHead pops the oldest entry. Caller must have already committed its
// memory effect.
func (q *LSQ) RetireHead() {
	if len(q.entries) == 0 {
		return
	}
	q.entries = q.entries[1:]
}

// FlushCFIDs removes every entry whose CFID is in flushed.
func (q *LSQ) FlushCFIDs(flushed []int) {
	if len(flushed) == 0 {
		return
	}
	set := make(map[int]bool, len(flushed))
	for _, c := range flushed {
		set[c] = true
	}
	kept := q.entries[:0]
	for _, e := range q.entries {
		if !set[e.CFID] {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}
