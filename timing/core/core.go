// Package core provides the cycle-accurate CPU core model. It wraps the
// out-of-order pipeline implementation to provide a high-level interface
// for drivers (the CLI, benchmarks) that don't need to reach into
// timing/pipeline's internals.
package core

import (
	"github.com/sarchlab/apexsim/emu"
	"github.com/sarchlab/apexsim/insts"
	"github.com/sarchlab/apexsim/timing/latency"
	"github.com/sarchlab/apexsim/timing/pipeline"
)

// Stats mirrors pipeline.Stats at the driver boundary, so callers of this
// package never need to import timing/pipeline directly just to read a
// counter.
type Stats struct {
	Cycles           uint64
	Retired          uint64
	Flushes          uint64
	BranchesTotal    uint64
	BranchesTaken    uint64
	StructuralStalls uint64
}

// Core represents a cycle-accurate APEX CPU core. It wraps a Simulator and
// provides a simple run/inspect interface for simulation.
type Core struct {
	sim *pipeline.Simulator
}

// NewCore creates a new Core over program, configured by cfg. A nil cfg
// uses latency.DefaultTimingConfig().
func NewCore(cfg *latency.TimingConfig, program []insts.Instruction) *Core {
	return &Core{sim: pipeline.New(cfg, program)}
}

// Tick executes one pipeline cycle.
func (c *Core) Tick() {
	c.sim.Tick()
}

// Run executes the core until it halts.
func (c *Core) Run() {
	c.sim.Run()
}

// RunCycles executes the core for at most n cycles or until it halts. When
// trace is true, the ROB head at the end of each cycle is recorded.
func (c *Core) RunCycles(n int, trace bool) {
	c.sim.RunCycles(n, trace)
}

// Stop halts the core without completing its program.
func (c *Core) Stop() {
	c.sim.Stop()
}

// Halted reports whether the core has halted.
func (c *Core) Halted() bool {
	return c.sim.Halted()
}

// ExitCode returns the core's exit code once halted.
func (c *Core) ExitCode() int {
	return c.sim.ExitCode()
}

// FaultError returns the memory fault that halted the core, if any.
func (c *Core) FaultError() error {
	return c.sim.FaultError()
}

// Stats returns the accumulated performance statistics.
func (c *Core) Stats() Stats {
	s := c.sim.Stats()
	return Stats{
		Cycles:           s.Cycles,
		Retired:          s.Retired,
		Flushes:          s.Flushes,
		BranchesTotal:    s.BranchesTotal,
		BranchesTaken:    s.BranchesTaken,
		StructuralStalls: s.StructuralStalls,
	}
}

// RegisterFile returns the architectural register values and zero flag.
func (c *Core) RegisterFile() ([pipeline.NumArchRegs]int, bool) {
	return c.sim.RegisterFile()
}

// Memory exposes the core's data memory for inspection.
func (c *Core) Memory() *emu.Memory {
	return c.sim.Memory()
}

// Trace returns the accumulated per-cycle trace log (only populated when
// RunCycles was called with trace=true).
func (c *Core) Trace() []pipeline.TraceEntry {
	return c.sim.Trace()
}
