package pipeline

import "github.com/sarchlab/apexsim/insts"

// stageIntFU selects one ready entry targeting FUInt per cycle and
// executes it: ALU ops and MOVC compute and broadcast in one cycle;
// BZ/BNZ/JUMP/JAL additionally resolve control flow, triggering the
// mispredict flush sequence when taken (spec §4.6).
func (s *Simulator) stageIntFU() {
	entry, ok := s.iq.Select(FUInt)
	if !ok {
		return
	}

	switch entry.Op {
	case insts.OpBZ, insts.OpBNZ:
		s.resolveBranch(entry)
	case insts.OpJUMP:
		target := entry.Src1Val + entry.Imm
		slot := s.findROBSlotByPC(entry.PC)
		s.takeBranch(entry, target)
		s.rob.Update(slot, 0, false)
	case insts.OpJAL:
		target := entry.Src1Val + entry.Imm
		link := entry.PC2() // PC + stride
		slot := s.findROBSlotByPC(entry.PC)
		s.urf.Write(entry.DestPhys, link, false)
		s.broadcastInt(entry.DestPhys, link, false)
		s.takeBranch(entry, target)
		s.rob.Update(slot, link, false)
	default:
		s.executeALU(entry)
	}
}

func (s *Simulator) findROBSlotByPC(pc uint64) int {
	for _, e := range s.robEntriesSnapshot() {
		if e.PC == pc {
			return e.Slot
		}
	}
	return -1
}

// robEntriesSnapshot exposes the ROB's live entries for lookups that don't
// fit the narrow admit/head/retire/update surface (branch resolution needs
// to find its own slot by PC since the IQ entry itself doesn't carry it).
func (s *Simulator) robEntriesSnapshot() []*ROBEntry {
	return s.rob.entries
}

func (s *Simulator) executeALU(entry *IQEntry) {
	var result int
	switch entry.Op {
	case insts.OpMOVC:
		result = entry.Imm
	case insts.OpADD:
		result = entry.Src1Val + entry.Src2Val
	case insts.OpSUB:
		result = entry.Src1Val - entry.Src2Val
	case insts.OpADDL:
		result = entry.Src1Val + entry.Imm
	case insts.OpSUBL:
		result = entry.Src1Val - entry.Imm
	case insts.OpAND:
		result = entry.Src1Val & entry.Src2Val
	case insts.OpOR:
		result = entry.Src1Val | entry.Src2Val
	case insts.OpEXOR:
		result = entry.Src1Val ^ entry.Src2Val
	case insts.OpNOP:
		s.rob.Update(s.findROBSlotByPC(entry.PC), 0, false)
		return
	default:
		return
	}

	zero := result == 0
	if entry.DestPhys >= 0 {
		s.urf.Write(entry.DestPhys, result, zero)
		s.broadcastInt(entry.DestPhys, result, zero)
	}
	s.rob.Update(s.findROBSlotByPC(entry.PC), result, zero)
}

func (s *Simulator) broadcastInt(phys int, value int, zero bool) {
	s.buses.Int = Bus{Active: true, RPhys: phys, RValue: value, ZeroFlag: zero}
	s.iq.Wakeup(phys, value)
}

// resolveBranch evaluates a BZ/BNZ against the guarding producer's zero
// flag: the architectural ZF if this branch is at the ROB head, otherwise
// the ROB slot immediately preceding it (spec §4.6; §9 open question:
// taken as specified, the nearest-ancestor search is literally slot-1).
func (s *Simulator) resolveBranch(entry *IQEntry) {
	slot := s.findROBSlotByPC(entry.PC)
	s.stats.BranchesTotal++

	var flag bool
	if head := s.rob.Head(); head != nil && head.Slot == slot {
		flag = s.archZeroFlag
	} else if zf, ok := s.rob.ZeroFlagAt(slot - 1); ok {
		flag = zf
	} else {
		flag = s.archZeroFlag
	}

	taken := (entry.Op == insts.OpBZ && flag) || (entry.Op == insts.OpBNZ && !flag)
	if taken {
		s.stats.BranchesTaken++
		target := int(entry.PC) + entry.Imm
		s.takeBranch(entry, target)
	}
	s.rob.Update(slot, 0, false)
	s.cfid.Observe(entry.CFID, entry.PC, taken)
}

// takeBranch performs the atomic mispredict/redirect sequence shared by a
// taken BZ/BNZ, JUMP, and JAL (spec §4.6, §5): flush decode/dispatch
// latches, drop ROB/IQ/LSQ entries for this CFID and everything after it,
// restore the front RAT from the snapshot attached to this branch's ROB
// entry, rebuild the free list from the registers still referenced, and
// redirect PC.
func (s *Simulator) takeBranch(entry *IQEntry, target int) {
	slot := s.findROBSlotByPC(entry.PC)
	branchROB := s.findROBEntry(slot)

	s.decodeLatch = DecodeLatch{}
	s.dispatchUop = DispatchUop{}

	s.rob.FlushFrom(slot)
	// Every instruction carrying this CFID or a CFID allocated after it was
	// fetched on the speculative (wrong) path: the branch's own CFID is
	// inherited by every non-branch instruction up to the next branch, so
	// it must be flushed from IQ/LSQ too, not just CFIDs strictly after it.
	flushed := s.cfid.FlushFrom(entry.CFID)
	s.iq.FlushCFIDs(flushed)
	s.lsq.FlushCFIDs(flushed)

	if branchROB != nil {
		s.rat.Restore(branchROB.Snapshot)
		// Rebuild the free list: registers freed by commits since the snapshot are not in it.
		live := make(map[int]bool)
		for a := 0; a < NumArchRegs; a++ {
			live[s.rat.fRAT[a]], live[s.rat.bRAT[a]] = true, true
		}
		for _, e := range s.rob.entries {
			live[e.Phys] = true
		}
		var free []int
		for p := s.urf.Size() - 1; p >= 0; p-- {
			if !live[p] {
				free = append(free, p)
			}
		}
		s.urf.restoreFreeList(free)
	}

	s.pc = target
	s.stats.Flushes++
}

func (s *Simulator) findROBEntry(slot int) *ROBEntry {
	for _, e := range s.rob.entries {
		if e.Slot == slot {
			return e
		}
	}
	return nil
}

// PC2 returns the byte address of the instruction after entry's own PC
// (spec §4.6: JAL writes PC+4 to rd).
func (e *IQEntry) PC2() int {
	return int(e.PC) + insts.InstrStride
}
