// Package main provides the entry point for apexsim.
// apexsim is a cycle-accurate simulator for the APEX out-of-order
// superscalar processor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/apexsim/loader"
	"github.com/sarchlab/apexsim/timing/core"
	"github.com/sarchlab/apexsim/timing/latency"
)

var (
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	maxCycles  = flag.Int("cycles", 0, "Stop after at most this many cycles (0 = run to HALT)")
	trace      = flag.Bool("trace", false, "Record a per-cycle retirement trace")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: apexsim [options] <program.asm>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s (%d instructions)\n", programPath, prog.Len())
	}

	c := core.NewCore(cfg, prog.Instructions)

	if *maxCycles > 0 {
		c.RunCycles(*maxCycles, *trace)
	} else {
		c.Run()
	}

	stateDump(c, programPath)
	os.Exit(c.ExitCode())
}

func resolveConfig() (*latency.TimingConfig, error) {
	if *configPath == "" {
		return latency.DefaultTimingConfig(), nil
	}
	return latency.LoadConfig(*configPath)
}

// stateDump prints the final architectural state and statistics, mirroring
// the reference driver's init/run/state_dump surface.
func stateDump(c *core.Core, programPath string) {
	regs, zero := c.RegisterFile()
	stats := c.Stats()

	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Halted: %t\n", c.Halted())
	fmt.Printf("Exit code: %d\n", c.ExitCode())
	if err := c.FaultError(); err != nil {
		fmt.Printf("Fault: %v\n", err)
	}
	fmt.Printf("Zero flag: %t\n", zero)
	fmt.Printf("\n")
	fmt.Printf("Registers:\n")
	for i, v := range regs {
		fmt.Printf("  R%-2d = %d\n", i, v)
	}
	fmt.Printf("\n")
	fmt.Printf("Cycles:            %d\n", stats.Cycles)
	fmt.Printf("Retired:           %d\n", stats.Retired)
	fmt.Printf("Flushes:           %d\n", stats.Flushes)
	fmt.Printf("Branches:          %d (%d taken)\n", stats.BranchesTotal, stats.BranchesTaken)
	fmt.Printf("Structural stalls: %d\n", stats.StructuralStalls)

	if *verbose {
		for _, entry := range c.Trace() {
			fmt.Printf("  tick=%-5d pc=%-6d op=%s\n", entry.Tick, entry.PC, entry.Op)
		}
	}
}
