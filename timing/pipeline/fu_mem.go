package pipeline

import "github.com/sarchlab/apexsim/insts"

// memFUState tracks the single in-flight memory operation occupying MemFU
// across its multi-cycle latency (spec §4.5/§6: MEM latency = 3 cycles).
// MemFU retires its own LSQ/ROB entries directly once complete, rather than
// going through stageRetire, to keep the LSQ head and ROB head consistent
// (spec §4.7).
type memFUState struct {
	busy      bool
	entry     *LSQEntry
	remaining int
}

func newMemFUState() *memFUState {
	return &memFUState{}
}

// stageAddressGen is the LS_FU address-generation stage: it selects the
// oldest ready memory op from the issue queue and computes its effective
// address, writing it into the matching LSQ entry. LOAD addresses from
// rs1+imm; STORE addresses from rs2+imm, since rs1 carries the value to
// store (spec §4.3's decode table, §4.5).
func (s *Simulator) stageAddressGen() {
	entry, ok := s.iq.Select(FULS)
	if !ok {
		return
	}

	lsqEntry := s.lsq.Find(entry.LSQSlot)
	if lsqEntry == nil {
		// Already flushed out from under this op; nothing left to do.
		return
	}

	switch entry.Op {
	case insts.OpLOAD:
		lsqEntry.Address = entry.Src1Val + entry.Imm
	case insts.OpSTORE:
		lsqEntry.Address = entry.Src2Val + entry.Imm
		lsqEntry.StoreValue = entry.Src1Val
	}
	lsqEntry.AddrValid = true
}

// stageMemFU drains the current memory occupant by one cycle, committing it
// once its latency has elapsed; otherwise it admits the LSQ head once that
// head has a valid address and matches the ROB head, keeping memory
// retirement strictly in program order (spec §4.6/§4.7).
func (s *Simulator) stageMemFU() {
	if s.memFU.busy {
		s.memFU.remaining--
		if s.memFU.remaining > 0 {
			return
		}
		s.completeMem()
		return
	}

	head := s.lsq.Head()
	if head == nil || !head.AddrValid {
		return
	}
	robHead := s.rob.Head()
	if robHead == nil || robHead.Slot != head.ROBSlot {
		return
	}

	s.memFU.busy = true
	s.memFU.entry = head
	s.memFU.remaining = int(s.cfg.MemLatency) - 1
	if s.memFU.remaining <= 0 {
		s.completeMem()
	}
}

func (s *Simulator) completeMem() {
	entry := s.memFU.entry

	switch entry.Op {
	case insts.OpSTORE:
		if err := s.mem.Store(entry.Address, entry.StoreValue); err != nil {
			s.fault(err)
			return
		}
	case insts.OpLOAD:
		value, err := s.mem.Load(entry.Address)
		if err != nil {
			s.fault(err)
			return
		}
		if entry.DestPhys >= 0 {
			s.urf.Write(entry.DestPhys, value, false)
			s.buses.Mem = Bus{Active: true, RPhys: entry.DestPhys, RValue: value, ZeroFlag: false}
			s.iq.Wakeup(entry.DestPhys, value)
		}
	}

	if entry.Rd >= 0 {
		s.rat.Commit(entry.DestPhys, entry.Rd)
	}

	s.rob.Retire()
	s.lsq.RetireHead()
	s.stats.Retired++

	s.memFU.busy = false
	s.memFU.entry = nil
}

// fault halts the simulator on an unrecoverable memory access error, the
// APEX equivalent of a data-abort: no architected exception model exists,
// so a fault simply ends the run with a non-zero exit code.
func (s *Simulator) fault(err error) {
	s.halted = true
	s.exitCode = 1
	s.faultErr = err
	s.memFU.busy = false
	s.memFU.entry = nil
}
