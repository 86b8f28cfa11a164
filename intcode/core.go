package intcode

import (
	"errors"
	"fmt"

	"github.com/colorfulnotion/intcode/intcode/program"
	"github.com/colorfulnotion/intcode/intcode/trace"
	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/vmerrors"
)

type State uint8

const (
	Running         State = iota
	WaitingForInput       // blocked on an input instruction with nothing queued
	Halted                // executed HALT; terminal
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForInput:
		return "waiting"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// StepResult is the outcome of a single instruction.
type StepResult struct {
	State     State
	Opcode    program.Opcode
	Output    int64
	HasOutput bool
}

// Core is one Intcode machine: a tape, an instruction pointer, a relative
// base and a queue of pending input. A Core is not safe for concurrent use.
type Core struct {
	mem          *Memory
	ip           int64
	relativeBase int64
	input        InputQueue
	state        State
	fault        error

	steps   uint64
	outputs uint64

	identifier string
	tracer     trace.Writer
	traceStep  *trace.Step
}

// New creates a machine whose tape is a copy of prog and whose input queue holds inputs.
func New(prog []int64, inputs []int64) *Core {
	return &Core{
		mem:   NewMemory(prog),
		input: *NewInputQueue(inputs...),
		state: Running,
	}
}

// Clone returns an independent machine in exactly the same position.
// The trace writer, if any, is shared.
func (c *Core) Clone() *Core {
	return &Core{
		mem:          c.mem.Clone(),
		ip:           c.ip,
		relativeBase: c.relativeBase,
		input:        c.input.clone(),
		state:        c.state,
		fault:        c.fault,
		steps:        c.steps,
		outputs:      c.outputs,
		identifier:   c.identifier,
		tracer:       c.tracer,
	}
}

func (c *Core) SetIdentifier(id string) {
	c.identifier = id
}

func (c *Core) GetIdentifier() string {
	return c.identifier
}

// WithTrace records every executed instruction to w.
func (c *Core) WithTrace(w trace.Writer) *Core {
	c.tracer = w
	return c
}

func (c *Core) State() State         { return c.state }
func (c *Core) IP() int64            { return c.ip }
func (c *Core) RelativeBase() int64  { return c.relativeBase }
func (c *Core) Steps() uint64        { return c.steps }
func (c *Core) Outputs() uint64      { return c.outputs }
func (c *Core) Memory() *Memory      { return c.mem }
func (c *Core) Input() *InputQueue   { return &c.input }
func (c *Core) Err() error           { return c.fault }
func (c *Core) InputExhausted() bool { return c.input.Exhausted() }
func (c *Core) PendingInput() int    { return c.input.Pending() }

// LastInput is the value an exhausted queue repeats when suspension is off.
func (c *Core) LastInput() (int64, bool) {
	return c.input.Last()
}

// PushInput queues values after the pending input.
func (c *Core) PushInput(values ...int64) {
	c.input.Push(values...)
}

// ReplaceInput drops the pending input and queues values instead.
func (c *Core) ReplaceInput(values ...int64) {
	c.input.Replace(values...)
}

// Peek reads the tape without executing anything.
func (c *Core) Peek(addr int64) (int64, error) {
	return c.mem.Read(addr)
}

// Poke patches the tape, typically before the first Run.
func (c *Core) Poke(addr int64, value int64) error {
	return c.mem.Write(addr, value)
}

// Step executes exactly one instruction. With suspend set, an input
// instruction that finds the queue exhausted leaves the machine in
// WaitingForInput without consuming anything or moving ip.
func (c *Core) Step(suspend bool) (StepResult, error) {
	if c.fault != nil {
		return StepResult{State: c.state}, c.fault
	}
	if c.state == Halted {
		return StepResult{State: Halted}, vmerrors.ErrMachineHalted
	}

	ip := c.ip
	word, err := c.mem.Read(ip)
	if err != nil {
		return StepResult{State: c.state}, c.poison(&vmerrors.Fault{Err: err, Addr: ip}, ip, 0)
	}
	ins, err := program.Decode(word)
	if err != nil {
		return StepResult{State: c.state}, c.poison(&vmerrors.Fault{Err: err, Addr: ip}, ip, word)
	}

	if c.tracer != nil {
		c.traceStep = c.newTraceStep(ins)
	}

	res := StepResult{Opcode: ins.Opcode}
	if err := c.execute(ins, suspend, &res); err != nil {
		c.traceStep = nil
		return StepResult{State: c.state, Opcode: ins.Opcode}, c.poison(err, ip, word)
	}
	if c.state == Running || c.state == Halted {
		c.steps++
	}
	res.State = c.state

	if c.traceStep != nil {
		c.flushTraceStep()
	}
	return res, nil
}

// Run steps the machine until it halts, suspends on input (only when suspend
// is set) or onOutput asks to stop. onOutput may be nil.
func (c *Core) Run(suspend bool, onOutput OutputFunc) (State, error) {
	if c.fault != nil {
		return c.state, c.fault
	}
	if c.state == Halted {
		return Halted, nil
	}
	for {
		res, err := c.Step(suspend)
		if err != nil {
			return c.state, err
		}
		if res.HasOutput && onOutput != nil {
			act := onOutput(res.Output)
			c.apply(act)
			if act.Stop {
				return c.state, nil
			}
		}
		if res.State != Running {
			if res.State == Halted {
				log.Debug(log.IntcodeMonitoring, "machine halted", "id", c.identifier, "steps", c.steps)
			}
			return res.State, nil
		}
	}
}

// RunUntilOutput steps until n values have been emitted or the machine stops
// running. It returns the values collected so far.
func (c *Core) RunUntilOutput(suspend bool, n int) ([]int64, State, error) {
	out := make([]int64, 0, n)
	if c.state == Halted {
		return out, Halted, nil
	}
	for len(out) < n {
		res, err := c.Step(suspend)
		if err != nil {
			return out, c.state, err
		}
		if res.HasOutput {
			out = append(out, res.Output)
		}
		if res.State != Running {
			return out, res.State, nil
		}
	}
	return out, c.state, nil
}

// RunCollect runs without suspension and returns every value emitted until HALT.
func (c *Core) RunCollect() ([]int64, error) {
	var out []int64
	_, err := c.Run(false, func(v int64) Action {
		out = append(out, v)
		return Continue()
	})
	return out, err
}

func (c *Core) apply(act Action) {
	if act.Replace {
		c.input.Replace(act.Append...)
		return
	}
	if len(act.Append) > 0 {
		c.input.Push(act.Append...)
	}
}

func (c *Core) poison(err error, ip, word int64) error {
	var f *vmerrors.Fault
	if errors.As(err, &f) {
		f.IP = ip
		f.Word = word
	}
	c.fault = err
	log.Warn(log.IntcodeMonitoring, "machine fault", "id", c.identifier, "ip", ip, "word", word, "err", err)
	return err
}
