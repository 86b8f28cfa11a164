package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/intcode/intcode/program"
	"github.com/colorfulnotion/intcode/intcode/trace"
)

// readProgram loads a comma separated listing from path.
func readProgram(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	words, err := program.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// parseValues parses a flag such as "1,2,-3"; empty means no values.
func parseValues(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	return program.Parse(s)
}

// openTrace opens the JSONL trace named by the flag, falling back to the
// configured path. It returns nil when tracing is off.
func (g *globals) openTrace(flagPath string) (*trace.JSONLWriter, error) {
	path := flagPath
	if path == "" && g.cfg != nil {
		path = g.cfg.Trace.Path
	}
	if path == "" {
		return nil, nil
	}
	return trace.NewJSONLWriterFile(path)
}
