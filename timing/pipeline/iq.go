package pipeline

import "github.com/sarchlab/apexsim/insts"

// FUKind identifies which functional unit an issue-queue entry targets.
type FUKind int

// Functional unit kinds.
const (
	FUInt FUKind = iota
	FUMul
	FULS
)

// IQEntry is a single issue-queue entry: a dispatched instruction waiting
// for its source operands to become valid (spec §3/§4.5).
type IQEntry struct {
	PC   uint64
	Op   insts.Op
	FU   FUKind
	Rd   int // architectural destination, for debug/trace only
	Imm  int

	DestPhys int // physical destination register, -1 if none

	NeedSrc1  bool
	Src1Phys  int
	Src1Val   int
	Src1Valid bool

	NeedSrc2  bool
	Src2Phys  int
	Src2Val   int
	Src2Valid bool

	LSQSlot int // LSQEntry.ID of the matching LSQ entry, -1 if not a memory op
	CFID    int
	Enqueue uint64 // tick this entry was dispatched, for age-based select
}

// Ready reports whether every required source operand is valid.
func (e *IQEntry) Ready() bool {
	if e.NeedSrc1 && !e.Src1Valid {
		return false
	}
	if e.NeedSrc2 && !e.Src2Valid {
		return false
	}
	return true
}

// IssueQueue is the out-of-order wakeup/select structure: a bounded,
// unordered set of entries, each woken by bus broadcasts and picked for
// issue oldest-ready-first per FU (spec §4.5).
type IssueQueue struct {
	capacity int
	entries  []*IQEntry
}

// NewIssueQueue builds an issue queue with the given capacity.
func NewIssueQueue(capacity int) *IssueQueue {
	return &IssueQueue{capacity: capacity}
}

// Len returns the number of entries currently held.
func (q *IssueQueue) Len() int {
	return len(q.entries)
}

// Full reports whether the queue is at capacity.
func (q *IssueQueue) Full() bool {
	return len(q.entries) >= q.capacity
}

// Enqueue admits entry at the tail. Returns false if the queue is full.
func (q *IssueQueue) Enqueue(entry *IQEntry) bool {
	if q.Full() {
		return false
	}
	q.entries = append(q.entries, entry)
	return true
}

// Select returns the oldest ready entry targeting fu and removes it from
// the queue, or false if none is ready. Age is enqueue clock, ties broken
// by relative slice position (insertion order), matching spec §4.5.
func (q *IssueQueue) Select(fu FUKind) (*IQEntry, bool) {
	best := -1
	for i, e := range q.entries {
		if e.FU != fu || !e.Ready() {
			continue
		}
		if best < 0 || e.Enqueue < q.entries[best].Enqueue {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	picked := q.entries[best]
	q.entries = append(q.entries[:best], q.entries[best+1:]...)
	return picked, true
}

// Wakeup broadcasts a resolved physical register to every waiting entry:
// any source matching phys has its value filled in and valid bit set,
// re-enabling readiness evaluation on the next Select/Ready check.
func (q *IssueQueue) Wakeup(phys int, value int) {
	for _, e := range q.entries {
		if e.NeedSrc1 && !e.Src1Valid && e.Src1Phys == phys {
			e.Src1Val = value
			e.Src1Valid = true
		}
		if e.NeedSrc2 && !e.Src2Valid && e.Src2Phys == phys {
			e.Src2Val = value
			e.Src2Valid = true
		}
	}
}

// FlushCFIDs removes every entry whose CFID is in flushed.
func (q *IssueQueue) FlushCFIDs(flushed []int) {
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
