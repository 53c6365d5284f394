package pipeline

import "github.com/sarchlab/apexsim/insts"

// stageRetire retires up to CommitWidth ROB entries from the head,
// in-order, stopping at the first entry that is not yet VALID (spec
// §4.7). HALT retiring from the head terminates the simulation. Memory
// retirement is handled separately by MemFU to keep the LSQ and ROB heads
// consistent (spec §4.7's explicit carve-out), so stageRetire skips
// LOAD/STORE entries entirely.
func (s *Simulator) stageRetire() {
	width := int(s.cfg.CommitWidth)
	for i := 0; i < width; i++ {
		head := s.rob.Head()
		if head == nil {
			return
		}
		if head.Op.IsMemory() {
			// MemFU owns this entry's retirement.
			return
		}
		if head.Op == insts.OpHALT {
			s.halted = true
			s.exitCode = 0
			return
		}
		if !head.Valid {
			return
		}

		s.commitROBEntry(head)
		s.rob.Retire()
		s.stats.Retired++
	}
}

// commitROBEntry performs the architectural side-effects of retiring a
// single ROB entry: freeing its CFID if it was a branch, updating the
// back-RAT (and thereby returning the prior physical register to the free
// list), and committing the zero flag.
func (s *Simulator) commitROBEntry(e *ROBEntry) {
	if e.IsBranch {
		s.cfid.Retire(e.CFID)
	}
	if e.Rd >= 0 {
		s.rat.Commit(e.Phys, e.Rd)
	}
	if e.HasFlag {
		s.archZeroFlag = e.ZeroFlag
	}
}
