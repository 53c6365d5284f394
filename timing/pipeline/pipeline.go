// Package pipeline implements the out-of-order execution engine: the
// rename/URF/RAT machinery, the CFID pool, the issue queue, the load/store
// queue, the reorder buffer, the forwarding buses, and the single-threaded
// tick loop that drives them.
package pipeline

import (
	"github.com/sarchlab/apexsim/emu"
	"github.com/sarchlab/apexsim/insts"
	"github.com/sarchlab/apexsim/timing/latency"
)

// FetchLatch holds the instruction most recently read from code memory,
// written every tick by Fetch regardless of whether Decode can accept it
// (spec §4.2).
type FetchLatch struct {
	Valid bool
	Inst  insts.Instruction
}

// DecodeLatch holds a fetched instruction waiting for Decode/Rename,
// cleared (Valid=false) once consumed.
type DecodeLatch struct {
	Valid bool
	Inst  insts.Instruction
}

// DispatchUop is the renamed micro-op produced by Decode/Rename, waiting
// for Dispatch to admit it into the IQ/ROB/LSQ.
type DispatchUop struct {
	Valid bool

	PC   int
	Op   insts.Op
	Rd   int
	Imm  int
	CFID int

	DestPhys int // -1 if the opcode writes no architectural register

	NeedSrc1 bool
	Src1Phys int
	NeedSrc2 bool
	Src2Phys int

	IsBranch bool
	IsHalt   bool
	Snapshot Snapshot
}

// Stats accumulates the simulation-wide counters surfaced by Stats().
type Stats struct {
	Cycles           uint64
	Retired          uint64
	Flushes          uint64
	BranchesTotal    uint64
	BranchesTaken    uint64
	StructuralStalls uint64
}

// Simulator owns every pipeline component and drives the tick loop. It is
// the single root value the driver operates on; components are shared by
// reference only during a tick and never retained as globals (spec §9).
type Simulator struct {
	cfg *latency.TimingConfig

	program []insts.Instruction
	mem     emu.Memory

	urf  *URF
	rat  *RAT
	cfid *CFIDPool
	iq   *IssueQueue
	lsq  *LSQ
	rob  *ROB

	buses Buses

	pc           int
	archZeroFlag bool

	fetchLatch  FetchLatch
	decodeLatch DecodeLatch
	dispatchUop DispatchUop

	mulFU *mulFUState
	memFU *memFUState

	halted   bool
	exitCode int
	faultErr error
	tick     uint64

	stats Stats

	trace []TraceEntry
}

// TraceEntry is one line of a per-cycle execution trace (spec §6:
// run_cycles' action==2 trace mode).
type TraceEntry struct {
	Tick uint64
	PC   int
	Op   insts.Op
}

// New constructs a Simulator over program with PC set to the code base
// (spec §6: init(program) sets PC=4000).
func New(cfg *latency.TimingConfig, program []insts.Instruction) *Simulator {
	if cfg == nil {
		cfg = latency.DefaultTimingConfig()
	}
	s := &Simulator{
		cfg:     cfg,
		program: program,
		urf:     NewURF(int(cfg.URFSize)),
		iq:      NewIssueQueue(int(cfg.IQSize)),
		lsq:     NewLSQ(int(cfg.LSQSize)),
		rob:     NewROB(int(cfg.ROBSize)),
		pc:      insts.CodeBase,
		mulFU:   newMulFUState(),
		memFU:   newMemFUState(),
	}
	s.rat = NewRAT(s.urf)
	s.cfid = NewCFIDPool(int(cfg.CFIDSize))
	return s
}

// Halted reports whether the simulation has terminated.
func (s *Simulator) Halted() bool {
	return s.halted
}

// ExitCode returns the process exit code (spec §6: 0 on HALT retirement).
func (s *Simulator) ExitCode() int {
	return s.exitCode
}

// FaultError returns the memory access error that halted the simulation,
// or nil if it halted normally (or hasn't halted at all).
func (s *Simulator) FaultError() error {
	return s.faultErr
}

// Stats returns a copy of the accumulated statistics.
func (s *Simulator) Stats() Stats {
	return s.stats
}

// FreeRegisterCount returns the number of unassigned physical registers in
// the URF, exposed for the free-list conservation invariant (spec §8):
// FreeRegisterCount() + (# in-flight renamed destinations) always equals
// the configured URF size.
func (s *Simulator) FreeRegisterCount() int {
	return s.urf.FreeCount()
}

// Memory exposes the data memory for StateDump/inspection.
func (s *Simulator) Memory() *emu.Memory {
	return &s.mem
}

// RegisterFile exposes the architectural view (via B-RAT + URF) of a
// register for StateDump/inspection.
func (s *Simulator) RegisterFile() (values [NumArchRegs]int, zero bool) {
	for a := 0; a < NumArchRegs; a++ {
		phys := s.rat.BackPhys(a)
		v, _, _ := s.urf.Read(phys)
		values[a] = v
	}
	return values, s.archZeroFlag
}

// Run steps until HALT retires (spec §6: run()).
func (s *Simulator) Run() {
	for !s.halted {
		s.Tick()
	}
}

// RunCycles steps at most n cycles or until HALT retires. When trace is
// true, the ROB head at the end of each tick (the oldest instruction not
// yet retired; a zero entry when the ROB is empty) is appended to the trace
// log (spec §6: run_cycles(n, action), action==2).
func (s *Simulator) RunCycles(n int, trace bool) {
	for i := 0; i < n && !s.halted; i++ {
		s.Tick()
		if trace {
			s.recordTrace()
		}
	}
}

// Trace returns the accumulated per-cycle trace log.
func (s *Simulator) Trace() []TraceEntry {
	return s.trace
}

func (s *Simulator) recordTrace() {
	head := s.rob.Head()
	entry := TraceEntry{Tick: s.tick}
	if head != nil {
		entry.PC = head.PC
		entry.Op = head.Op
	}
	s.trace = append(s.trace, entry)
}

// Stop releases simulator resources. The Go GC makes this a no-op beyond
// marking the simulator halted, kept for interface parity with the
// reference driver surface (spec §6).
func (s *Simulator) Stop() {
	s.halted = true
}

// Tick advances the simulator by exactly one simulated clock cycle,
// running every stage in reverse pipeline order so that each stage reads
// state its upstream neighbor already wrote (spec §2, §5): retire ->
// memFU -> intFU -> mulFU -> LS address-gen -> dispatch -> decode/rename
// -> fetch.
func (s *Simulator) Tick() {
	if s.halted {
		return
	}
	s.tick++
	s.stats.Cycles++

	s.buses.Clear()

	s.stageRetire()
	s.stageMemFU()
	s.stageIntFU()
	s.stageMulFU()
	s.stageAddressGen()
	s.stageDispatch()
	s.stageDecode()
	s.stageFetch()
}
