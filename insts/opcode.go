// Package insts defines the APEX instruction set: the opcode enum, the
// decoded Instruction representation, and a line-based assembly parser.
//
// This is deliberately the thinnest package in the module. Per the
// specification, instruction-text parsing is an external collaborator to
// the out-of-order engine — the engine only ever consumes a []Instruction
// indexed by PC. Everything here exists to produce that vector.
package insts

import "fmt"

// CodeBase is the byte address of the first instruction in code memory
// (spec §6: "index = (PC - 4000) / 4").
const CodeBase = 4000

// InstrStride is the byte distance between consecutive instructions.
const InstrStride = 4

// CodeAddress converts a zero-based instruction index to its PC.
func CodeAddress(index int) int {
	return CodeBase + index*InstrStride
}

// IndexOf converts a PC back to its zero-based instruction index. The
// result is only meaningful when pc falls on an instruction boundary at or
// after CodeBase.
func IndexOf(pc int) int {
	return (pc - CodeBase) / InstrStride
}

// Op identifies an APEX opcode.
type Op uint8

// APEX opcodes.
const (
	OpInvalid Op = iota
	OpMOVC
	OpADD
	OpSUB
	OpADDL
	OpSUBL
	OpAND
	OpOR
	OpEXOR
	OpMUL
	OpLOAD
	OpSTORE
	OpBZ
	OpBNZ
	OpJUMP
	OpJAL
	OpHALT
	OpNOP
)

var opNames = map[Op]string{
	OpMOVC:  "MOVC",
	OpADD:   "ADD",
	OpSUB:   "SUB",
	OpADDL:  "ADDL",
	OpSUBL:  "SUBL",
	OpAND:   "AND",
	OpOR:    "OR",
	OpEXOR:  "EX-OR",
	OpMUL:   "MUL",
	OpLOAD:  "LOAD",
	OpSTORE: "STORE",
	OpBZ:    "BZ",
	OpBNZ:   "BNZ",
	OpJUMP:  "JUMP",
	OpJAL:   "JAL",
	OpHALT:  "HALT",
	OpNOP:   "NOP",
}

var namesToOp = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		m[name] = op
	}
	return m
}()

// String returns the assembly mnemonic for the opcode.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "INVALID"
}

// ParseOp resolves a mnemonic string to its Op. Matching is case-sensitive,
// matching the reference assembly's uppercase convention.
func ParseOp(mnemonic string) (Op, error) {
	if op, ok := namesToOp[mnemonic]; ok {
		return op, nil
	}
	return OpInvalid, fmt.Errorf("insts: unknown opcode %q", mnemonic)
}

// IsBranch reports whether the opcode is one of the four speculative
// control-flow instructions that allocate a CFID at decode (spec §4.3).
func (o Op) IsBranch() bool {
	switch o {
	case OpBZ, OpBNZ, OpJUMP, OpJAL:
		return true
	default:
		return false
	}
}

// WritesDest reports whether the opcode writes an architectural destination
// register (spec §4.3's "Writes" column).
func (o Op) WritesDest() bool {
	switch o {
	case OpMOVC, OpADD, OpSUB, OpADDL, OpSUBL, OpAND, OpOR, OpEXOR, OpMUL, OpLOAD, OpJAL:
		return true
	default:
		return false
	}
}

// ReadsRs1 reports whether the opcode reads an architectural rs1.
func (o Op) ReadsRs1() bool {
	switch o {
	case OpADD, OpSUB, OpAND, OpOR, OpEXOR, OpMUL, OpADDL, OpSUBL, OpLOAD, OpSTORE, OpJUMP, OpJAL:
		return true
	default:
		return false
	}
}

// ReadsRs2 reports whether the opcode reads an architectural rs2.
func (o Op) ReadsRs2() bool {
	switch o {
	case OpADD, OpSUB, OpAND, OpOR, OpEXOR, OpMUL, OpSTORE:
		return true
	default:
		return false
	}
}

// IsMemory reports whether the opcode is a LOAD or STORE (routes through
// the LS functional unit and the LSQ).
func (o Op) IsMemory() bool {
	return o == OpLOAD || o == OpSTORE
}

// SetsZeroFlag reports whether the opcode's result updates the
// architectural zero flag on completion. MOVC loads an immediate and
// deliberately leaves the flag alone (spec §4.6).
func (o Op) SetsZeroFlag() bool {
	switch o {
	case OpADD, OpSUB, OpADDL, OpSUBL, OpAND, OpOR, OpEXOR, OpMUL:
		return true
	default:
		return false
	}
}

// Instruction is a single decoded APEX instruction, indexed by PC in code
// memory. Field meaning matches spec §3 exactly: Rd/Rs1/Rs2 are
// architectural register numbers, Imm is the sign-extended literal.
type Instruction struct {
	Op  Op
	Rd  int
	Rs1 int
	Rs2 int
	Imm int
	PC  int
}

// String renders the instruction in a debug-friendly assembly-like form.
func (i Instruction) String() string {
	switch i.Op {
	case OpMOVC:
		return fmt.Sprintf("%-5s R%d, #%d", i.Op, i.Rd, i.Imm)
	case OpADD, OpSUB, OpAND, OpOR, OpEXOR, OpMUL:
		return fmt.Sprintf("%-5s R%d, R%d, R%d", i.Op, i.Rd, i.Rs1, i.Rs2)
	case OpADDL, OpSUBL:
		return fmt.Sprintf("%-5s R%d, R%d, #%d", i.Op, i.Rd, i.Rs1, i.Imm)
	case OpLOAD:
		return fmt.Sprintf("%-5s R%d, R%d, #%d", i.Op, i.Rd, i.Rs1, i.Imm)
	case OpSTORE:
		return fmt.Sprintf("%-5s R%d, R%d, #%d", i.Op, i.Rs1, i.Rs2, i.Imm)
	case OpJUMP:
		return fmt.Sprintf("%-5s R%d, #%d", i.Op, i.Rs1, i.Imm)
	case OpJAL:
		return fmt.Sprintf("%-5s R%d, R%d, #%d", i.Op, i.Rd, i.Rs1, i.Imm)
	case OpBZ, OpBNZ:
		return fmt.Sprintf("%-5s #%d", i.Op, i.Imm)
	default:
		return i.Op.String()
	}
}
