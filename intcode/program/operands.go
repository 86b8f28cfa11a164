package program

import (
	"github.com/colorfulnotion/intcode/vmerrors"
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Word   int64
	Opcode Opcode
	Modes  [MaxParams]Mode
}

// Info returns the opcode table entry of the instruction.
func (ins Instruction) Info() OpInfo {
	return Ops[ins.Opcode]
}

// Params returns the parameter count of the instruction.
func (ins Instruction) Params() int {
	return Ops[ins.Opcode].Params
}

var modeDivisors = [MaxParams]int64{100, 1000, 10000}

// Decode splits an instruction word into its opcode and the modes of the
// parameters that opcode takes. Only the literal value 99 in the low two digits
// is HALT; mode digits of parameters the opcode does not take are ignored.
func Decode(word int64) (Instruction, error) {
	ins := Instruction{Word: word}
	if word < 0 {
		return ins, vmerrors.ErrInvalidOpcode
	}
	ins.Opcode = Opcode(word % 100)
	info, ok := Ops[ins.Opcode]
	if !ok {
		return ins, vmerrors.ErrInvalidOpcode
	}
	for i := 0; i < info.Params; i++ {
		m := Mode((word / modeDivisors[i]) % 10)
		if m > Relative {
			return ins, vmerrors.ErrBadParameterMode
		}
		ins.Modes[i] = m
	}
	return ins, nil
}

// Encode builds an instruction word from an opcode and parameter modes.
func Encode(op Opcode, modes ...Mode) int64 {
	word := int64(op)
	for i, m := range modes {
		if i >= MaxParams {
			break
		}
		word += int64(m) * modeDivisors[i]
	}
	return word
}
