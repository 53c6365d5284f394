package pipeline

import "github.com/sarchlab/apexsim/insts"

// stageFetch reads the instruction at PC from code memory, writes the
// fetch latch, and — if the decode latch is free — advances PC and copies
// the fetch latch into the decode latch (spec §4.2). Past the end of the
// program it produces NOP semantics (spec §7: out-of-range fetch yields no
// instruction; in-flight work still drains).
func (s *Simulator) stageFetch() {
	inst, ok := s.fetchAt(s.pc)
	if !ok {
		s.fetchLatch = FetchLatch{Valid: true, Inst: insts.Instruction{Op: insts.OpNOP, PC: s.pc}}
	} else {
		s.fetchLatch = FetchLatch{Valid: true, Inst: inst}
	}

	if s.decodeLatch.Valid {
		// Decode hasn't consumed its current instruction yet; hold PC and
		// the fetch latch's content for next cycle.
		return
	}

	s.decodeLatch = DecodeLatch{Valid: true, Inst: s.fetchLatch.Inst}
	s.pc += insts.InstrStride
}

func (s *Simulator) fetchAt(pc int) (insts.Instruction, bool) {
	idx := insts.IndexOf(pc)
	if idx < 0 || idx >= len(s.program) {
		return insts.Instruction{}, false
	}
	return s.program[idx], true
}

// stageDecode renames the instruction held in the decode latch and writes
// the result into the dispatch-pending micro-op, unless that slot is
// already occupied (Dispatch stalled last cycle) or renaming itself fails
// (spec §4.3).
func (s *Simulator) stageDecode() {
	if !s.decodeLatch.Valid {
		return
	}
	if s.dispatchUop.Valid {
		// Dispatch could not admit last cycle's uop; hold this one.
		return
	}

	inst := s.decodeLatch.Inst
	uop := DispatchUop{Valid: true, PC: inst.PC, Op: inst.Op, Rd: inst.Rd, Imm: inst.Imm}

	if inst.Op == insts.OpHALT {
		uop.IsHalt = true
		uop.DestPhys = -1
		uop.CFID = s.cfid.Last()
		s.dispatchUop = uop
		s.decodeLatch = DecodeLatch{}
		return
	}

	if inst.Op.ReadsRs1() {
		uop.NeedSrc1 = true
		uop.Src1Phys = s.rat.RenameRead(inst.Rs1)
	}
	if inst.Op.ReadsRs2() {
		uop.NeedSrc2 = true
		uop.Src2Phys = s.rat.RenameRead(inst.Rs2)
	}

	uop.DestPhys = -1
	prevDest := 0
	if inst.Op.WritesDest() {
		prevDest = s.rat.RenameRead(inst.Rd)
		phys, ok := s.rat.RenameWrite(inst.Rd)
		if !ok {
			// Free list exhausted: stall decode (and transitively fetch,
			// since the decode latch stays occupied).
			return
		}
		uop.DestPhys = phys
	}

	if inst.Op.IsBranch() {
		cfid, ok := s.cfid.Alloc(uint64(inst.PC))
		if !ok {
			// CFID pool exhausted: undo the destination rename (JAL) so the
			// free list isn't leaked across the stalled retry, then stall.
			if uop.DestPhys >= 0 {
				s.rat.fRAT[inst.Rd] = prevDest
				s.urf.Free(uop.DestPhys)
			}
			return
		}
		uop.IsBranch = true
		uop.CFID = cfid
		// Snapshot is taken once the branch's own rename (including a JAL
		// destination) is complete, so restoring it on mispredict never
		// un-reserves a physical register the branch's own ROB entry still
		// owns (that entry survives the flush; only younger entries are
		// removed).
		uop.Snapshot = s.rat.Snapshot()
	} else {
		uop.CFID = s.cfid.Last()
	}

	s.dispatchUop = uop
	s.decodeLatch = DecodeLatch{}
}
