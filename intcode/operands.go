package intcode

import (
	"github.com/colorfulnotion/intcode/intcode/program"
	"github.com/colorfulnotion/intcode/vmerrors"
)

// EffectiveAddress is the tape address a position or relative parameter refers to.
// Reads and writes share it; immediate parameters have no address and are
// treated as position parameters when they name a destination.
func EffectiveAddress(m program.Mode, p int64, relativeBase int64) int64 {
	if m == program.Relative {
		return relativeBase + p
	}
	return p
}

func (c *Core) load(addr int64) (int64, error) {
	v, err := c.mem.Read(addr)
	if err != nil {
		return 0, &vmerrors.Fault{Err: err, Addr: addr}
	}
	return v, nil
}

func (c *Core) store(addr int64, value int64) error {
	if err := c.mem.Write(addr, value); err != nil {
		return &vmerrors.Fault{Err: err, Addr: addr}
	}
	if c.traceStep != nil {
		c.traceStep.SetWrite(addr, value)
	}
	return nil
}

// param is the raw word of parameter i of the instruction at ip.
func (c *Core) param(i int) (int64, error) {
	return c.load(c.ip + 1 + int64(i))
}

// operand resolves parameter i for reading.
func (c *Core) operand(ins program.Instruction, i int) (int64, error) {
	p, err := c.param(i)
	if err != nil {
		return 0, err
	}
	m := ins.Modes[i]
	switch m {
	case program.Immediate:
		return p, nil
	case program.Position, program.Relative:
		return c.load(EffectiveAddress(m, p, c.relativeBase))
	default:
		return 0, &vmerrors.Fault{Err: vmerrors.ErrBadParameterMode, Addr: c.ip}
	}
}

// target resolves parameter i as a destination address.
func (c *Core) target(ins program.Instruction, i int) (int64, error) {
	p, err := c.param(i)
	if err != nil {
		return 0, err
	}
	m := ins.Modes[i]
	switch m {
	case program.Position, program.Immediate:
		return p, nil
	case program.Relative:
		return EffectiveAddress(m, p, c.relativeBase), nil
	default:
		return 0, &vmerrors.Fault{Err: vmerrors.ErrBadParameterMode, Addr: c.ip}
	}
}

// operands resolves the first n parameters for reading.
func (c *Core) operands(ins program.Instruction, n int) ([program.MaxParams]int64, error) {
	var vals [program.MaxParams]int64
	for i := 0; i < n; i++ {
		v, err := c.operand(ins, i)
		if err != nil {
			return vals, err
		}
		vals[i] = v
	}
	return vals, nil
}
