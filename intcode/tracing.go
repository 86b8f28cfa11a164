package intcode

import (
	"github.com/colorfulnotion/intcode/intcode/program"
	"github.com/colorfulnotion/intcode/intcode/trace"
	"github.com/colorfulnotion/intcode/log"
)

func (c *Core) newTraceStep(ins program.Instruction) *trace.Step {
	info := ins.Info()
	st := &trace.Step{
		Step:     c.steps + 1,
		Node:     c.identifier,
		IP:       c.ip,
		Word:     ins.Word,
		Opcode:   int64(ins.Opcode),
		Mnemonic: info.Name,
	}
	if info.Params > 0 {
		st.Params = make([]int64, info.Params)
		st.Modes = make([]uint8, info.Params)
		for i := 0; i < info.Params; i++ {
			// ip+1+i is never negative here: ip itself was just read successfully
			st.Params[i], _ = c.mem.Read(c.ip + 1 + int64(i))
			st.Modes[i] = uint8(ins.Modes[i])
		}
	}
	return st
}

func (c *Core) flushTraceStep() {
	st := c.traceStep
	c.traceStep = nil
	if c.state == WaitingForInput {
		// nothing executed; the instruction is traced again once it runs
		return
	}
	st.RelativeBase = c.relativeBase
	st.PostState = c.state.String()
	if err := c.tracer.WriteStep(st); err != nil {
		log.Warn(log.IntcodeMonitoring, "trace write failed, tracing disabled", "id", c.identifier, "err", err)
		c.tracer = nil
	}
}
