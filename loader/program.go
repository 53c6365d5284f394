// Package loader reads an APEX assembly source file from disk and produces
// the decoded instruction vector the simulator runs.
package loader

import (
	"fmt"
	"os"

	"github.com/sarchlab/apexsim/insts"
)

// Program is a fully decoded APEX binary: a linear, PC-indexed instruction
// vector plus the path it was loaded from (kept for diagnostics).
type Program struct {
	Path         string
	Instructions []insts.Instruction
}

// Load reads and parses the assembly file at path.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to open %s: %w", path, err)
	}
	defer f.Close()

	program, err := insts.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to parse %s: %w", path, err)
	}
	if len(program) == 0 {
		return nil, fmt.Errorf("loader: %s contains no instructions", path)
	}

	return &Program{Path: path, Instructions: program}, nil
}

// At returns the instruction at the given byte PC and whether it exists. A
// PC past the end of the program (including the natural fallthrough after
// the last line) is reported as not found so callers can treat it as an
// implicit HALT.
func (p *Program) At(pc int) (insts.Instruction, bool) {
	idx := insts.IndexOf(pc)
	if idx < 0 || idx >= len(p.Instructions) {
		return insts.Instruction{}, false
	}
	return p.Instructions[idx], true
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.Instructions)
}
