package pipeline

// NumArchRegs is the number of architectural registers the rename tables
// map from (spec §3/§4.1).
const NumArchRegs = 16

// URF is the Unified Register File: a flat array of physical registers,
// each with a value and a valid bit, plus the free list of unassigned
// physical IDs. It has no notion of architectural names — that lives in
// the RAT.
type URF struct {
	value    []int
	valid    []bool
	zeroFlag []bool
	free     []int // stack of free physical register IDs
}

// NewURF builds a URF of the given size with the first NumArchRegs
// registers pre-assigned (one per architectural register, valid, zero
// value) and the remainder on the free list.
func NewURF(size int) *URF {
	u := &URF{
		value:    make([]int, size),
		valid:    make([]bool, size),
		zeroFlag: make([]bool, size),
	}
	for p := size - 1; p >= NumArchRegs; p-- {
		u.free = append(u.free, p)
	}
	for p := 0; p < NumArchRegs && p < size; p++ {
		u.valid[p] = true
	}
	return u
}

// Size returns the number of physical registers.
func (u *URF) Size() int {
	return len(u.value)
}

// Alloc pops a physical register off the free list, clears its valid bit,
// and returns it. The second return is false if the free list is empty.
func (u *URF) Alloc() (int, bool) {
	if len(u.free) == 0 {
		return 0, false
	}
	phys := u.free[len(u.free)-1]
	u.free = u.free[:len(u.free)-1]
	u.valid[phys] = false
	return phys, true
}

// Free returns a physical register to the free list.
func (u *URF) Free(phys int) {
	u.free = append(u.free, phys)
}

// FreeCount returns the number of unassigned physical registers.
func (u *URF) FreeCount() int {
	return len(u.free)
}

// Read returns the value, zero flag, and valid bit of a physical register.
func (u *URF) Read(phys int) (value int, zero bool, valid bool) {
	return u.value[phys], u.zeroFlag[phys], u.valid[phys]
}

// Valid reports whether a physical register currently holds a committed
// value (i.e. has been written by its producing FU).
func (u *URF) Valid(phys int) bool {
	return u.valid[phys]
}

// Write commits a value to a physical register. A physical register's
// valid bit transitions false→true exactly once per allocation (spec §3).
func (u *URF) Write(phys int, value int, zero bool) {
	u.value[phys] = value
	u.zeroFlag[phys] = zero
	u.valid[phys] = true
}

// freeListSnapshot returns an independent copy of the free list for use in
// a RAT snapshot.
func (u *URF) freeListSnapshot() []int {
	cp := make([]int, len(u.free))
	copy(cp, u.free)
	return cp
}

// restoreFreeList replaces the free list wholesale (used by RAT.Restore).
func (u *URF) restoreFreeList(free []int) {
	cp := make([]int, len(free))
	copy(cp, free)
	u.free = cp
}

// RAT holds the front and back rename tables over a URF.
type RAT struct {
	urf  *URF
	fRAT [NumArchRegs]int // architectural -> physical, most recent rename
	bRAT [NumArchRegs]int // architectural -> physical, last retired
}

// NewRAT builds a RAT over urf with both tables identity-mapped to the
// pre-assigned architectural physical registers.
func NewRAT(urf *URF) *RAT {
	r := &RAT{urf: urf}
	for a := 0; a < NumArchRegs; a++ {
		r.fRAT[a] = a
		r.bRAT[a] = a
	}
	return r
}

// RenameRead returns the physical register currently mapped to
// architectural register rs in the front RAT.
func (r *RAT) RenameRead(rs int) int {
	return r.fRAT[rs]
}

// RenameWrite allocates a new physical register for architectural
// destination rd and updates the front RAT. Returns false if the URF free
// list is exhausted.
func (r *RAT) RenameWrite(rd int) (int, bool) {
	phys, ok := r.urf.Alloc()
	if !ok {
		return 0, false
	}
	r.fRAT[rd] = phys
	return phys, true
}

// Commit updates the back RAT for arch register rd to phys (the physical
// register that just retired), returning the previous back-RAT'd physical
// register to the free list if it differs from the new one.
func (r *RAT) Commit(phys int, rd int) {
	old := r.bRAT[rd]
	r.bRAT[rd] = phys
	if old != phys {
		r.urf.Free(old)
	}
}

// BackPhys returns the last-retired physical register for architectural
// register rd.
func (r *RAT) BackPhys(rd int) int {
	return r.bRAT[rd]
}

// Snapshot is an immutable copy of rename state taken at a CFID's birth,
// used to roll back the RAT and free list on mispredict.
type Snapshot struct {
	fRAT [NumArchRegs]int
	free []int
}

// Snapshot deep-copies the front RAT and free list.
func (r *RAT) Snapshot() Snapshot {
	return Snapshot{
		fRAT: r.fRAT,
		free: r.urf.freeListSnapshot(),
	}
}

// Restore overwrites the front RAT and free list with a prior snapshot.
// The restored free list holds only the registers that were free when the
// snapshot was taken; registers freed by a commit after that point are not
// in it (takeBranch rebuilds the list after calling Restore).
func (r *RAT) Restore(snap Snapshot) {
	r.fRAT = snap.fRAT
	r.urf.restoreFreeList(snap.free)
}
