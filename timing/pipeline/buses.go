package pipeline

// Bus is a one-cycle-wide forwarding broadcast produced by a functional
// unit when it completes and read by dispatch's operand resolution later in
// the same tick, since Tick runs the FU stages before dispatch (spec
// §3/§4.8).
type Bus struct {
	Active   bool
	RPhys    int
	RValue   int
	ZeroFlag bool
}

// Buses holds the three per-FU forwarding buses. Each tick, the driver
// clears them before the FU stages run, so a bus written during a tick is
// visible only to the stages that run after its FU within that same tick.
type Buses struct {
	Int Bus
	Mul Bus
	Mem Bus
}

// Clear resets all three buses to inactive, called once per tick before
// the FU stages drive them.
func (b *Buses) Clear() {
	b.Int = Bus{}
	b.Mul = Bus{}
	b.Mem = Bus{}
}

// Resolve looks up a physical register across the bus/URF priority chain
// (spec §4.8): INT bus, then MUL bus, then MEM bus, then the URF's valid
// bit. Returns the value, the zero flag last associated with it, and
// whether it resolved to anything.
func (b *Buses) Resolve(urf *URF, phys int) (value int, zero bool, valid bool) {
	if b.Int.Active && b.Int.RPhys == phys {
		return b.Int.RValue, b.Int.ZeroFlag, true
	}
	if b.Mul.Active && b.Mul.RPhys == phys {
		return b.Mul.RValue, b.Mul.ZeroFlag, true
	}
	if b.Mem.Active && b.Mem.RPhys == phys {
		return b.Mem.RValue, b.Mem.ZeroFlag, true
	}
	return urf.Read(phys)
}
