package pipeline

// mulFUState tracks the single in-flight MUL occupying MulFU across its
// multi-cycle latency (spec §4.5/§6: MUL latency = 2 cycles).
type mulFUState struct {
	busy      bool
	entry     *IQEntry
	result    int
	remaining int // cycles left to run, including the current one
}

func newMulFUState() *mulFUState {
	return &mulFUState{}
}

// stageMulFU drains the current MUL occupant by one cycle, completing and
// broadcasting it once its latency has elapsed; otherwise it accepts the
// next ready MUL entry from the issue queue. MulFU holds at most one
// instruction at a time, matching the reference model's single multiplier.
func (s *Simulator) stageMulFU() {
	if s.mulFU.busy {
		s.mulFU.remaining--
		if s.mulFU.remaining > 0 {
			return
		}
		s.completeMul()
		return
	}

	entry, ok := s.iq.Select(FUMul)
	if !ok {
		return
	}

	s.mulFU.busy = true
	s.mulFU.entry = entry
	s.mulFU.result = entry.Src1Val * entry.Src2Val
	s.mulFU.remaining = int(s.cfg.MulLatency) - 1
	if s.mulFU.remaining <= 0 {
		s.completeMul()
	}
}

func (s *Simulator) completeMul() {
	entry := s.mulFU.entry
	result := s.mulFU.result
	zero := result == 0

	if entry.DestPhys >= 0 {
		s.urf.Write(entry.DestPhys, result, zero)
		s.buses.Mul = Bus{Active: true, RPhys: entry.DestPhys, RValue: result, ZeroFlag: zero}
		s.iq.Wakeup(entry.DestPhys, result)
	}
	s.rob.Update(s.findROBSlotByPC(entry.PC), result, zero)

	s.mulFU.busy = false
	s.mulFU.entry = nil
}
