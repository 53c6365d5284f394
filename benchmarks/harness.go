// Package benchmarks provides a micro-benchmark harness for APEX timing
// calibration: a fixed set of short programs run through the out-of-order
// core, reporting CPI/stall/flush statistics.
package benchmarks

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sarchlab/apexsim/insts"
	"github.com/sarchlab/apexsim/timing/core"
	"github.com/sarchlab/apexsim/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark.
	Name string `json:"name"`

	// Description explains what the benchmark exercises.
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the timing core.
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions.
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction.
	CPI float64 `json:"cpi"`

	// StructuralStalls is the number of cycles dispatch was blocked by a
	// full IQ/ROB/LSQ.
	StructuralStalls uint64 `json:"structural_stalls"`

	// PipelineFlushes is the number of mispredict squashes.
	PipelineFlushes uint64 `json:"pipeline_flushes"`

	// BranchesTotal/BranchesTaken are the resolved-branch counters.
	BranchesTotal  uint64  `json:"branches_total"`
	BranchesTaken  uint64  `json:"branches_taken"`
	BranchAccuracy float64 `json:"branch_accuracy_percent"`

	// ExitCode is the program's exit code.
	ExitCode int `json:"exit_code"`

	// WallTime is the actual time taken to run the simulation.
	WallTime time.Duration `json:"wall_time_ns"`
}

// cpi computes cycles-per-instruction, reporting 0 for a program that
// retired nothing.
func (r BenchmarkResult) cpi() float64 {
	if r.InstructionsRetired == 0 {
		return 0
	}
	return float64(r.SimulatedCycles) / float64(r.InstructionsRetired)
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark.
	Name string

	// Description explains what the benchmark measures.
	Description string

	// Source is the APEX assembly source text to assemble and run.
	Source string

	// ExpectedExit is the expected exit code, for validation.
	ExpectedExit int
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing is the timing configuration applied to every run. Nil uses
	// latency.DefaultTimingConfig().
	Timing *latency.TimingConfig

	// Output is where PrintResults writes (default os.Stdout).
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{Output: os.Stdout}
}

// Harness runs a set of benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// AddBenchmark adds a single benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(bs []Benchmark) {
	h.benchmarks = append(h.benchmarks, bs...)
}

// RunAll executes every added benchmark and returns its results, in order.
func (h *Harness) RunAll() ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))
	for _, bench := range h.benchmarks {
		result, err := h.runBenchmark(bench)
		if err != nil {
			return nil, fmt.Errorf("benchmarks: %s: %w", bench.Name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (h *Harness) runBenchmark(bench Benchmark) (BenchmarkResult, error) {
	program, err := insts.Parse(strings.NewReader(bench.Source))
	if err != nil {
		return BenchmarkResult{}, err
	}

	c := core.NewCore(h.config.Timing, program)

	start := time.Now()
	c.Run()
	wallTime := time.Since(start)

	stats := c.Stats()
	result := BenchmarkResult{
		Name:                bench.Name,
		Description:         bench.Description,
		SimulatedCycles:     stats.Cycles,
		InstructionsRetired: stats.Retired,
		StructuralStalls:    stats.StructuralStalls,
		PipelineFlushes:     stats.Flushes,
		BranchesTotal:       stats.BranchesTotal,
		BranchesTaken:       stats.BranchesTaken,
		ExitCode:            c.ExitCode(),
		WallTime:            wallTime,
	}
	result.CPI = result.cpi()
	if result.BranchesTotal > 0 {
		result.BranchAccuracy = 100 * float64(result.BranchesTotal-result.BranchesTaken) / float64(result.BranchesTotal)
	}

	return result, nil
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== APEX Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Exit Code: %d\n", r.ExitCode)
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles:    %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Retired:   %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:       %.2f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Stalls:    %d\n", r.StructuralStalls)
		_, _ = fmt.Fprintf(h.config.Output, "  Flushes:   %d\n", r.PipelineFlushes)
		if r.BranchesTotal > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Branches:  %d (%.1f%% not-taken)\n", r.BranchesTotal, r.BranchAccuracy)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall time: %s\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}
