// Package predictor implements the CFID prediction table: a small,
// directly-indexed table of (PC, last-outcome) pairs, one slot per live
// control-flow identifier, consulted at decode and updated at resolution
// (spec §4.2, BTB/CFID pool).
//
// The table has exactly the shape of a tiny tagged cache — one set per
// CFID slot, one way per set, tagged by the slot number (cfid-1), with the
// dirty bit mirroring the last-taken outcome — so it is built on Akita's cache directory
// rather than a hand-rolled map, the same directory component the pack
// uses for memory-hierarchy modeling. Nothing here times an access or
// models hit/miss latency; it is pure bookkeeping state indexed by CFID.
package predictor

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Predictor is the interface the pipeline consults for CFID outcome
// bookkeeping. Table is the only implementation; the seam exists so a real
// direction predictor can be swapped in later without touching the pipeline
// driver, per the Design Notes' "keep prediction_table behind an interface"
// guidance.
type Predictor interface {
	Lookup(cfid int) (Prediction, bool)
	Update(cfid int, pc uint64, taken bool)
	Reset()
}

// Prediction is the BTB's record for one CFID slot.
type Prediction struct {
	// PC is the instruction address that allocated this slot.
	PC uint64
	// Taken is the last-resolved outcome for this slot's branch.
	Taken bool
	// Valid reports whether this slot holds a resolved prediction yet, as
	// opposed to a freshly allocated, never-resolved slot.
	Valid bool
}

// Table is the CFID prediction table: Size slots, each holding the most
// recent (PC, taken) outcome for the control-flow instruction last
// assigned that CFID.
//
// The directory is keyed by the CFID slot itself (cfid-1), not by pc: it
// only tracks which slots hold a valid, recorded prediction. The actual
// (pc, taken) payload lives in slots, addressed the same way, since the
// directory's Tag/IsDirty fields are too narrow to carry both fields
// without the two stepping on each other.
type Table struct {
	size      int
	directory *akitacache.DirectoryImpl
	slots     []Prediction
}

// NewTable builds a prediction table with the given number of CFID slots.
func NewTable(size int) *Table {
	return &Table{
		size: size,
		directory: akitacache.NewDirectory(
			size,
			1,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		slots: make([]Prediction, size),
	}
}

// Lookup returns the prediction currently recorded for cfid (1-based, per
// spec §4.2), and whether a prediction has ever been recorded there.
func (t *Table) Lookup(cfid int) (Prediction, bool) {
	block := t.blockFor(cfid)
	if block == nil || !block.IsValid {
		return Prediction{}, false
	}
	return t.slots[cfid-1], true
}

// Update records the resolved outcome of the control-flow instruction at pc
// that was assigned cfid, for use the next time that CFID slot is
// allocated to a branch at the same PC.
func (t *Table) Update(cfid int, pc uint64, taken bool) {
	if cfid < 1 || cfid > t.size {
		return
	}
	key := uint64(cfid - 1)
	block := t.directory.FindVictim(key)
	if block == nil {
		return
	}
	block.Tag = key
	block.IsValid = true
	block.IsDirty = taken
	t.slots[cfid-1] = Prediction{PC: pc, Taken: taken, Valid: true}
}

// Reset clears every slot, discarding all recorded predictions.
func (t *Table) Reset() {
	t.directory.Reset()
	for i := range t.slots {
		t.slots[i] = Prediction{}
	}
}

func (t *Table) blockFor(cfid int) *akitacache.Block {
	if cfid < 1 || cfid > t.size {
		return nil
	}
	return t.directory.Lookup(0, uint64(cfid-1))
}
