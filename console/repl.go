package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/colorfulnotion/intcode/intcode"
)

// LineReader is the part of *readline.Instance the REPL needs.
type LineReader interface {
	Readline() (string, error)
}

// NewReadline opens a terminal line editor with history kept in historyFile.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
}

// Serve prints the program's banner and then alternates between reading a
// line and resuming the program until the program halts, the reader is
// exhausted or the user types exit.
func (h *Host) Serve(r LineReader) error {
	if err := h.print(h.Resume()); err != nil {
		return err
	}
	for h.core.State() != intcode.Halted {
		line, err := r.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "exit":
			return nil
		case strings.HasPrefix(line, "!"):
			value, err := h.Eval(strings.TrimPrefix(line, "!"))
			if err != nil {
				fmt.Fprintln(h.out, "JavaScript error:", err)
				continue
			}
			fmt.Fprintln(h.out, "=>", value)
		default:
			if err := h.print(h.Send(line)); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(h.out, "program halted")
	return nil
}

func (h *Host) print(text string, results []int64, err error) error {
	if text != "" {
		fmt.Fprint(h.out, text)
	}
	for _, v := range results {
		fmt.Fprintln(h.out, "result:", v)
	}
	return err
}
