package program

// Opcode is the value of an instruction word modulo 100.
type Opcode int64

const (
	ADD           Opcode = 1
	MUL           Opcode = 2
	INPUT         Opcode = 3
	OUTPUT        Opcode = 4
	JUMP_IF_TRUE  Opcode = 5
	JUMP_IF_FALSE Opcode = 6
	LESS_THAN     Opcode = 7
	EQUALS        Opcode = 8
	ADJUST_BASE   Opcode = 9
	HALT          Opcode = 99
)

// Mode is the addressing mode of a single parameter.
type Mode uint8

const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return "invalid"
	}
}

// MaxParams is the widest parameter list of any opcode.
const MaxParams = 3

// OpInfo describes the shape of an opcode.
type OpInfo struct {
	Name   string
	Params int
	// WriteParam is the index of the destination parameter, or -1.
	WriteParam int
}

// Size is the number of words the instruction occupies, opcode included.
func (o OpInfo) Size() int64 {
	return int64(o.Params) + 1
}

var Ops = map[Opcode]OpInfo{
	ADD:           {Name: "ADD", Params: 3, WriteParam: 2},
	MUL:           {Name: "MUL", Params: 3, WriteParam: 2},
	INPUT:         {Name: "IN", Params: 1, WriteParam: 0},
	OUTPUT:        {Name: "OUT", Params: 1, WriteParam: -1},
	JUMP_IF_TRUE:  {Name: "JNZ", Params: 2, WriteParam: -1},
	JUMP_IF_FALSE: {Name: "JZ", Params: 2, WriteParam: -1},
	LESS_THAN:     {Name: "LT", Params: 3, WriteParam: 2},
	EQUALS:        {Name: "EQ", Params: 3, WriteParam: 2},
	ADJUST_BASE:   {Name: "ARB", Params: 1, WriteParam: -1},
	HALT:          {Name: "HALT", Params: 0, WriteParam: -1},
}

func (op Opcode) String() string {
	if info, ok := Ops[op]; ok {
		return info.Name
	}
	return "???"
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := Ops[op]
	return ok
}

// IsJump reports whether op may move the instruction pointer somewhere other than the next instruction.
func (op Opcode) IsJump() bool {
	return op == JUMP_IF_TRUE || op == JUMP_IF_FALSE
}
