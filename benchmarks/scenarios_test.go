package benchmarks

import (
	"strings"
	"testing"

	"github.com/sarchlab/apexsim/insts"
	"github.com/sarchlab/apexsim/timing/core"
	"github.com/sarchlab/apexsim/timing/latency"
)

// TestScenariosRunToCompletion runs every scenario benchmark and checks
// that it halts cleanly with no memory fault, mirroring the teacher's
// table-driven validation-baseline style but over APEX assembly sources
// instead of ARM64 machine code.
func TestScenariosRunToCompletion(t *testing.T) {
	for _, bench := range Scenarios() {
		bench := bench
		t.Run(bench.Name, func(t *testing.T) {
			h := NewHarness(DefaultConfig())
			h.AddBenchmark(bench)

			results, err := h.RunAll()
			if err != nil {
				t.Fatalf("RunAll failed: %v", err)
			}
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}

			r := results[0]
			if r.ExitCode != 0 {
				t.Fatalf("%s: exit code = %d, want 0", bench.Name, r.ExitCode)
			}
			if r.SimulatedCycles == 0 {
				t.Fatalf("%s: simulated 0 cycles", bench.Name)
			}
			if r.InstructionsRetired == 0 {
				t.Fatalf("%s: retired 0 instructions", bench.Name)
			}
		})
	}
}

// TestHarnessRunAllReportsEveryScenario checks that RunAll preserves
// benchmark order and count across the whole suite in one pass.
func TestHarnessRunAllReportsEveryScenario(t *testing.T) {
	h := NewHarness(DefaultConfig())
	h.AddBenchmarks(Scenarios())

	results, err := h.RunAll()
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(results) != len(Scenarios()) {
		t.Fatalf("got %d results, want %d", len(results), len(Scenarios()))
	}
	for i, r := range results {
		if r.Name != Scenarios()[i].Name {
			t.Fatalf("result %d name = %q, want %q", i, r.Name, Scenarios()[i].Name)
		}
	}
}

// TestUndersizedResourcesStillComplete runs the stress scenario against a
// deliberately undersized timing configuration to confirm structural
// stalls don't corrupt architectural state.
func TestUndersizedResourcesStillComplete(t *testing.T) {
	cfg := latency.DefaultTimingConfig()
	cfg.IQSize = 1
	cfg.ROBSize = 2
	cfg.LSQSize = 1

	var bench Benchmark
	for _, b := range Scenarios() {
		if b.Name == "mixed_stress" {
			bench = b
		}
	}
	if bench.Name == "" {
		t.Fatal("mixed_stress scenario not found")
	}

	program, err := insts.Parse(strings.NewReader(bench.Source))
	if err != nil {
		t.Fatalf("failed to assemble %s: %v", bench.Name, err)
	}

	c := core.NewCore(cfg, program)
	c.Run()

	if !c.Halted() {
		t.Fatal("expected the core to halt")
	}
	if c.ExitCode() != 0 {
		t.Fatalf("exit code = %d, want 0", c.ExitCode())
	}
	if c.Stats().StructuralStalls == 0 {
		t.Fatal("expected undersized queues to produce at least one structural stall")
	}
}
