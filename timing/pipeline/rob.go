package pipeline

import "github.com/sarchlab/apexsim/insts"

// ROBEntry is a single reorder-buffer slot: one in-flight instruction
// tracked from dispatch to retirement (spec §3/§4.7).
type ROBEntry struct {
	Slot int // stable, monotonically increasing admission sequence number
	PC   uint64
	Op   insts.Op

	Rd       int // architectural destination, -1 if the opcode writes none
	Phys     int // physical destination register, -1 if none
	CFID     int
	HasFlag  bool // whether this opcode sets the zero flag on completion
	IsBranch bool // whether this opcode allocated its own CFID

	Valid    bool // completion status: false=INVALID, true=VALID
	Result   int
	ZeroFlag bool

	Snapshot Snapshot // attached at admission for branch entries
}

// ROB is the in-order reorder buffer: a FIFO bounded by capacity, admitting
// at the tail and retiring from the head.
type ROB struct {
	capacity int
	entries  []*ROBEntry
	nextSlot int
}

// NewROB builds a ROB with the given capacity.
func NewROB(capacity int) *ROB {
	return &ROB{capacity: capacity}
}

// Len returns the number of in-flight entries.
func (r *ROB) Len() int {
	return len(r.entries)
}

// Full reports whether the ROB is at capacity.
func (r *ROB) Full() bool {
	return len(r.entries) >= r.capacity
}

// Admit appends entry at the tail, assigning it the next sequence number,
// and returns that slot number. Returns ok=false if the ROB is full.
func (r *ROB) Admit(entry ROBEntry) (slot int, ok bool) {
	if r.Full() {
		return 0, false
	}
	entry.Slot = r.nextSlot
	r.nextSlot++
	r.entries = append(r.entries, &entry)
	return entry.Slot, true
}

// Head peeks the oldest entry, or nil if the ROB is empty.
func (r *ROB) Head() *ROBEntry {
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[0]
}

// Retire pops the head entry. The caller is responsible for acting on
// retirement: B-RAT update, snapshot discard, CFID free for branches.
func (r *ROB) Retire() {
	if len(r.entries) == 0 {
		return
	}
	r.entries = r.entries[1:]
}

// Update marks the entry at slot VALID with its result, matching the
// functional unit that produced it (spec §4.7's `update`).
func (r *ROB) Update(slot int, result int, zero bool) {
	for _, e := range r.entries {
		if e.Slot == slot {
			e.Valid = true
			e.Result = result
			e.ZeroFlag = zero
			return
		}
	}
}

// ZeroFlagAt returns the zero flag recorded for the entry at slot, and
// whether that entry is currently present in the ROB. Used by BZ/BNZ
// resolution to read the flag of the entry just before the branch (slot-1);
// it does not search back for the nearest flag-producing entry (spec §4.6,
// §9 open question).
func (r *ROB) ZeroFlagAt(slot int) (bool, bool) {
	for _, e := range r.entries {
		if e.Slot == slot {
			return e.ZeroFlag, true
		}
	}
	return false, false
}

// FlushFrom removes every entry strictly newer than slot (i.e. admitted
// after it) and returns them, oldest-first, for physical-register
// reclamation bookkeeping. The RAT/URF snapshot restore is what actually
// makes those physical registers reachable again; this just reports which
// ROB entries were squashed. Idempotent: a slot with nothing newer than it
// already in the ROB returns nil.
func (r *ROB) FlushFrom(slot int) []*ROBEntry {
	idx := -1
	for i, e := range r.entries {
		if e.Slot > slot {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	flushed := append([]*ROBEntry(nil), r.entries[idx:]...)
	r.entries = r.entries[:idx]
	return flushed
}
