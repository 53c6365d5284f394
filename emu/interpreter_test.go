package emu_test

import (
	"strings"
	"testing"

	"github.com/sarchlab/apexsim/emu"
	"github.com/sarchlab/apexsim/insts"
)

func mustParse(t *testing.T, src string) []insts.Instruction {
	t.Helper()
	program, err := insts.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return program
}

func TestRunArithmetic(t *testing.T) {
	program := mustParse(t, `
MOVC R1, #10
MOVC R2, #20
ADD  R3, R1, R2
SUB  R4, R2, R1
HALT
`)
	result, err := emu.Run(program)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Halted {
		t.Fatal("expected program to halt")
	}
	if result.Regs.ReadReg(3) != 30 {
		t.Fatalf("expected R3=30, got %d", result.Regs.ReadReg(3))
	}
	if result.Regs.ReadReg(4) != 10 {
		t.Fatalf("expected R4=10, got %d", result.Regs.ReadReg(4))
	}
}

func TestRunLoadStore(t *testing.T) {
	program := mustParse(t, `
MOVC R1, #42
MOVC R2, #100
STORE R1, R2, #0
LOAD R3, R2, #0
HALT
`)
	result, err := emu.Run(program)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Regs.ReadReg(3) != 42 {
		t.Fatalf("expected R3=42, got %d", result.Regs.ReadReg(3))
	}
}

func TestRunBranchLoop(t *testing.T) {
	// Counts R1 down from 3 to 0, accumulating into R2.
	program := mustParse(t, `
MOVC R1, #3
MOVC R2, #0
ADDL R2, R2, #1
SUBL R1, R1, #1
BNZ #-8
HALT
`)
	result, err := emu.Run(program)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Regs.ReadReg(1) != 0 {
		t.Fatalf("expected R1=0, got %d", result.Regs.ReadReg(1))
	}
	if result.Regs.ReadReg(2) != 3 {
		t.Fatalf("expected R2=3, got %d", result.Regs.ReadReg(2))
	}
}

func TestRunJALReturnsLinkAddress(t *testing.T) {
	// R1=0, so JAL's target is the literal imm: the HALT at index 4.
	program := mustParse(t, `
MOVC R1, #0
JAL R2, R1, #4016
MOVC R3, #99
MOVC R3, #99
HALT
`)
	result, err := emu.Run(program)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Regs.ReadReg(2) != insts.CodeAddress(2) {
		t.Fatalf("expected link register R2=%d, got %d", insts.CodeAddress(2), result.Regs.ReadReg(2))
	}
	if result.Regs.ReadReg(3) != 0 {
		t.Fatalf("JAL should have skipped over the MOVC R3 instructions, got R3=%d", result.Regs.ReadReg(3))
	}
}

func TestRunMOVCDoesNotSetZeroFlag(t *testing.T) {
	program := mustParse(t, `
MOVC R1, #5
MOVC R2, #5
SUB  R3, R1, R2
MOVC R4, #0
HALT
`)
	result, err := emu.Run(program)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Regs.Zero {
		t.Fatal("expected zero flag set by the preceding SUB")
	}
}

func TestRunLogicalOpsSetZeroFlag(t *testing.T) {
	program := mustParse(t, `
MOVC R1, #5
MOVC R2, #5
EX-OR R3, R1, R2
HALT
`)
	result, err := emu.Run(program)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Regs.Zero {
		t.Fatal("expected EX-OR of equal operands to set the zero flag")
	}
}

func TestRunImplicitHaltAtEndOfProgram(t *testing.T) {
	program := mustParse(t, "MOVC R1, #1\n")
	result, err := emu.Run(program)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Halted {
		t.Fatal("expected implicit halt at end of program")
	}
}

func TestMemoryOutOfRangeErrors(t *testing.T) {
	var mem emu.Memory
	if _, err := mem.Load(-1); err == nil {
		t.Fatal("expected error for negative address")
	}
	if err := mem.Store(emu.MemSize, 0); err == nil {
		t.Fatal("expected error for address past MemSize")
	}
}
