package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// maxLine bounds a single JSONL record.
const maxLine = 1 << 20

// ReadJSONL decodes records written by JSONLWriter and calls fn for each one
// in file order. Blank lines are skipped.
func ReadJSONL(r io.Reader, fn func(*Step) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var st Step
		if err := json.Unmarshal([]byte(text), &st); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(&st); err != nil {
			return err
		}
	}
	return sc.Err()
}

// LogLine renders a step in the one-line text log format:
//
//	MNEMONIC step ip RB: base [node] [W addr=value] [IN v] [OUT v] state
func (s *Step) LogLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d %d RB: %d", s.Mnemonic, s.Step, s.IP, s.RelativeBase)
	if s.Node != "" {
		fmt.Fprintf(&b, " [%s]", s.Node)
	}
	if s.Wrote != nil {
		fmt.Fprintf(&b, " W %d=%d", s.Wrote.Addr, s.Wrote.Value)
	}
	if s.Input != nil {
		fmt.Fprintf(&b, " IN %d", *s.Input)
	}
	if s.Output != nil {
		fmt.Fprintf(&b, " OUT %d", *s.Output)
	}
	b.WriteString(" ")
	b.WriteString(s.PostState)
	return b.String()
}
