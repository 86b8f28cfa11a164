// Package console drives a single Intcode core interactively. Plain lines are
// sent to the program as ASCII; lines starting with '!' are JavaScript
// evaluated against the core.
package console

import (
	"fmt"
	"io"

	"github.com/dop251/goja"

	"github.com/colorfulnotion/intcode/intcode"
	"github.com/colorfulnotion/intcode/intcode/ascii"
	"github.com/colorfulnotion/intcode/log"
)

// Host binds a core to a JavaScript runtime. The script sees the core as the
// global object ic.
type Host struct {
	vm   *goja.Runtime
	core *intcode.Core
	out  io.Writer
}

func NewHost(core *intcode.Core, out io.Writer) (*Host, error) {
	h := &Host{vm: goja.New(), core: core, out: out}
	ic := h.vm.NewObject()
	bindings := map[string]interface{}{
		"input": func(values ...int64) { h.core.PushInput(values...) },
		"run":   h.run,
		"send":  h.Send,
		"peek":  h.core.Peek,
		"poke":  h.core.Poke,
		"state": func() string { return h.core.State().String() },
		"steps": func() uint64 { return h.core.Steps() },
		"ip":    func() int64 { return h.core.IP() },
	}
	for name, fn := range bindings {
		if err := ic.Set(name, fn); err != nil {
			return nil, fmt.Errorf("bind ic.%s: %w", name, err)
		}
	}
	if err := h.vm.Set("ic", ic); err != nil {
		return nil, err
	}
	if err := h.vm.Set("print", func(args ...goja.Value) {
		for _, arg := range args {
			fmt.Fprintln(h.out, arg.Export())
		}
	}); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Host) Core() *intcode.Core { return h.core }

// Eval runs src and returns its completion value.
func (h *Host) Eval(src string) (goja.Value, error) {
	return h.vm.RunString(src)
}

// run resumes the core until it needs input or halts and returns the values
// it emitted.
func (h *Host) run() ([]interface{}, error) {
	var out []interface{}
	_, err := h.core.Run(true, func(v int64) intcode.Action {
		out = append(out, v)
		return intcode.Continue()
	})
	return out, err
}

// Send feeds line as ASCII, resumes the core and returns the text it printed
// together with any values outside the ASCII range.
func (h *Host) Send(line string) (string, []int64, error) {
	h.core.PushInput(ascii.EncodeLines(line)...)
	return h.Resume()
}

// Resume runs the core without new input and decodes what it printed.
func (h *Host) Resume() (string, []int64, error) {
	var dec ascii.Decoder
	state, err := h.core.Run(true, func(v int64) intcode.Action {
		dec.Write(v)
		return intcode.Continue()
	})
	log.Debug(log.CLIMonitoring, "console resume", "state", state, "steps", h.core.Steps())
	return dec.Text(), dec.Results(), err
}
