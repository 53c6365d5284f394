package pipeline

import "github.com/sarchlab/apexsim/insts"

// stageDispatch admits the pending renamed micro-op into the IQ, ROB, and
// (for memory ops) LSQ atomically: either every queue has room and all
// three entries are constructed together, or nothing is admitted and the
// micro-op is retried next cycle (spec §4.4).
func (s *Simulator) stageDispatch() {
	if !s.dispatchUop.Valid {
		return
	}
	uop := s.dispatchUop

	if uop.IsHalt {
		if s.rob.Full() {
			s.stats.StructuralStalls++
			return
		}
		s.rob.Admit(ROBEntry{
			PC: uint64(uop.PC), Op: uop.Op, Rd: -1, Phys: -1,
			CFID: uop.CFID, Valid: true,
		})
		s.dispatchUop = DispatchUop{}
		return
	}

	needsLSQ := uop.Op.IsMemory()
	if s.iq.Full() || s.rob.Full() || (needsLSQ && s.lsq.Full()) {
		s.stats.StructuralStalls++
		return
	}

	src1Val, src1Zero, src1Valid := s.resolveIfNeeded(uop.NeedSrc1, uop.Src1Phys)
	src2Val, _, src2Valid := s.resolveIfNeeded(uop.NeedSrc2, uop.Src2Phys)
	_ = src1Zero

	robSlot, ok := s.rob.Admit(ROBEntry{
		PC:       uint64(uop.PC),
		Op:       uop.Op,
		Rd:       destArchReg(uop),
		Phys:     uop.DestPhys,
		CFID:     uop.CFID,
		HasFlag:  uop.Op.SetsZeroFlag(),
		IsBranch: uop.IsBranch,
		Snapshot: uop.Snapshot,
	})
	if !ok {
		s.stats.StructuralStalls++
		return
	}

	lsqSlot := -1
	if needsLSQ {
		entry := LSQEntry{
			PC:       uint64(uop.PC),
			Op:       uop.Op,
			Rd:       -1,
			DestPhys: -1,
			CFID:     uop.CFID,
			ROBSlot:  robSlot,
		}
		if uop.Op == insts.OpLOAD {
			entry.Rd = uop.Rd
			entry.DestPhys = uop.DestPhys
		}
		// STORE's value operand (rs1) is captured later by address
		// generation, once the issue queue has confirmed it ready — not
		// here, where it may not have been produced yet.
		id, ok := s.lsq.Enqueue(entry)
		if !ok {
			// Unreachable given the fullness check above, but keep the
			// stall path symmetric in case capacities are ever decoupled.
			s.stats.StructuralStalls++
			return
		}
		lsqSlot = id
	}

	s.iq.Enqueue(&IQEntry{
		PC:        uint64(uop.PC),
		Op:        uop.Op,
		FU:        fuKindFor(uop.Op),
		Rd:        uop.Rd,
		Imm:       uop.Imm,
		DestPhys:  uop.DestPhys,
		NeedSrc1:  uop.NeedSrc1,
		Src1Phys:  uop.Src1Phys,
		Src1Val:   src1Val,
		Src1Valid: src1Valid,
		NeedSrc2:  uop.NeedSrc2,
		Src2Phys:  uop.Src2Phys,
		Src2Val:   src2Val,
		Src2Valid: src2Valid,
		LSQSlot:   lsqSlot,
		CFID:      uop.CFID,
		Enqueue:   s.tick,
	})

	s.dispatchUop = DispatchUop{}
}

// resolveIfNeeded resolves a source operand through the bus/URF priority
// chain (spec §4.8) only if the opcode actually reads it.
func (s *Simulator) resolveIfNeeded(need bool, phys int) (value int, zero bool, valid bool) {
	if !need {
		return 0, false, true
	}
	return s.buses.Resolve(s.urf, phys)
}

func destArchReg(uop DispatchUop) int {
	if uop.DestPhys < 0 {
		return -1
	}
	return uop.Rd
}

func fuKindFor(op insts.Op) FUKind {
	switch {
	case op == insts.OpMUL:
		return FUMul
	case op.IsMemory():
		return FULS
	default:
		return FUInt
	}
}
