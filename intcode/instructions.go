package intcode

import (
	"github.com/colorfulnotion/intcode/intcode/program"
	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/vmerrors"
)

func boolToWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (c *Core) execute(ins program.Instruction, suspend bool, res *StepResult) error {
	size := ins.Info().Size()
	switch ins.Opcode {
	case program.ADD, program.MUL, program.LESS_THAN, program.EQUALS:
		v, err := c.operands(ins, 2)
		if err != nil {
			return err
		}
		dst, err := c.target(ins, 2)
		if err != nil {
			return err
		}
		var result int64
		switch ins.Opcode {
		case program.ADD:
			result = v[0] + v[1]
		case program.MUL:
			result = v[0] * v[1]
		case program.LESS_THAN:
			result = boolToWord(v[0] < v[1])
		case program.EQUALS:
			result = boolToWord(v[0] == v[1])
		}
		if err := c.store(dst, result); err != nil {
			return err
		}
		c.ip += size

	case program.INPUT:
		if suspend && c.input.Exhausted() {
			if c.state != WaitingForInput {
				log.Trace(log.IntcodeMonitoring, "suspended on input", "id", c.identifier, "ip", c.ip)
			}
			c.state = WaitingForInput
			return nil
		}
		dst, err := c.target(ins, 0)
		if err != nil {
			return err
		}
		v, _ := c.input.Next()
		if err := c.store(dst, v); err != nil {
			return err
		}
		if c.traceStep != nil {
			c.traceStep.SetInput(v)
		}
		c.ip += size

	case program.OUTPUT:
		v, err := c.operand(ins, 0)
		if err != nil {
			return err
		}
		res.Output = v
		res.HasOutput = true
		c.outputs++
		if c.traceStep != nil {
			c.traceStep.SetOutput(v)
		}
		c.ip += size

	case program.JUMP_IF_TRUE, program.JUMP_IF_FALSE:
		v, err := c.operands(ins, 2)
		if err != nil {
			return err
		}
		if (v[0] != 0) == (ins.Opcode == program.JUMP_IF_TRUE) {
			c.ip = v[1]
		} else {
			c.ip += size
		}

	case program.ADJUST_BASE:
		v, err := c.operand(ins, 0)
		if err != nil {
			return err
		}
		c.relativeBase += v
		c.ip += size

	case program.HALT:
		c.state = Halted
		return nil

	default:
		return &vmerrors.Fault{Err: vmerrors.ErrInvalidOpcode, Addr: c.ip}
	}
	c.state = Running
	return nil
}
