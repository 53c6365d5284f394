package emu

import (
	"fmt"

	"github.com/sarchlab/apexsim/insts"
)

// MaxSteps bounds interpretation against runaway programs (a HALT that
// never reaches, or a branch loop with no termination). It is generous
// relative to any of the reference test programs.
const MaxSteps = 1_000_000

// Result is the final architectural state produced by running a program to
// completion, used to cross-check the out-of-order timing engine's
// committed state.
type Result struct {
	Regs   ArchRegs
	Mem    Memory
	Steps  int
	Halted bool
	LastPC int
}

// Run interprets program directly, in order, with no renaming or
// speculation: exactly the architectural behavior an out-of-order engine
// must reproduce at retirement. It is the golden model the timing package
// validates itself against.
func Run(program []insts.Instruction) (Result, error) {
	var regs ArchRegs
	var mem Memory

	pc := insts.CodeBase
	steps := 0
	for steps < MaxSteps {
		idx := insts.IndexOf(pc)
		if idx < 0 || idx >= len(program) {
			// Running off the end of the program is treated as an implicit HALT.
			return Result{Regs: regs, Mem: mem, Steps: steps, Halted: true, LastPC: pc}, nil
		}

		inst := program[idx]
		steps++

		next := pc + insts.InstrStride
		switch inst.Op {
		case insts.OpNOP:
			// no-op

		case insts.OpHALT:
			return Result{Regs: regs, Mem: mem, Steps: steps, Halted: true, LastPC: pc}, nil

		case insts.OpMOVC:
			// MOVC loads an immediate but deliberately leaves the zero flag
			// alone (matches insts.OpMOVC.SetsZeroFlag() == false).
			regs.WriteReg(inst.Rd, inst.Imm)

		case insts.OpADD:
			v := regs.ReadReg(inst.Rs1) + regs.ReadReg(inst.Rs2)
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpSUB:
			v := regs.ReadReg(inst.Rs1) - regs.ReadReg(inst.Rs2)
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpADDL:
			v := regs.ReadReg(inst.Rs1) + inst.Imm
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpSUBL:
			v := regs.ReadReg(inst.Rs1) - inst.Imm
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpAND:
			v := regs.ReadReg(inst.Rs1) & regs.ReadReg(inst.Rs2)
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpOR:
			v := regs.ReadReg(inst.Rs1) | regs.ReadReg(inst.Rs2)
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpEXOR:
			v := regs.ReadReg(inst.Rs1) ^ regs.ReadReg(inst.Rs2)
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpMUL:
			v := regs.ReadReg(inst.Rs1) * regs.ReadReg(inst.Rs2)
			regs.WriteReg(inst.Rd, v)
			regs.SetZero(v)

		case insts.OpLOAD:
			addr := regs.ReadReg(inst.Rs1) + inst.Imm
			v, err := mem.Load(addr)
			if err != nil {
				return Result{}, fmt.Errorf("emu: at pc=%d: %w", pc, err)
			}
			regs.WriteReg(inst.Rd, v)

		case insts.OpSTORE:
			addr := regs.ReadReg(inst.Rs2) + inst.Imm
			if err := mem.Store(addr, regs.ReadReg(inst.Rs1)); err != nil {
				return Result{}, fmt.Errorf("emu: at pc=%d: %w", pc, err)
			}

		case insts.OpBZ:
			if regs.Zero {
				next = pc + inst.Imm
			}

		case insts.OpBNZ:
			if !regs.Zero {
				next = pc + inst.Imm
			}

		case insts.OpJUMP:
			next = regs.ReadReg(inst.Rs1) + inst.Imm

		case insts.OpJAL:
			regs.WriteReg(inst.Rd, pc+insts.InstrStride)
			next = regs.ReadReg(inst.Rs1) + inst.Imm

		default:
			return Result{}, fmt.Errorf("emu: unsupported opcode %v at pc=%d", inst.Op, pc)
		}

		pc = next
	}

	return Result{}, fmt.Errorf("emu: exceeded %d steps without halting", MaxSteps)
}
