// Package ascii adapts line oriented text to and from Intcode word streams.
// Programs that talk ASCII read one character per input instruction and
// report results that do not fit a character as a single large value.
package ascii

import (
	"strings"
)

const (
	Newline  = 10
	MaxASCII = 127
)

// EncodeLines joins lines with newlines, appends a final newline and returns
// one word per byte.
func EncodeLines(lines ...string) []int64 {
	text := strings.Join(lines, "\n") + "\n"
	out := make([]int64, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = int64(text[i])
	}
	return out
}

// Decoder accumulates an output stream. Values in 0..127 are text; any other
// value is kept as a result.
type Decoder struct {
	text    strings.Builder
	results []int64
}

// Write consumes one output value. It reports whether the value was text.
func (d *Decoder) Write(v int64) bool {
	if v < 0 || v > MaxASCII {
		d.results = append(d.results, v)
		return false
	}
	d.text.WriteByte(byte(v))
	return true
}

func (d *Decoder) Text() string {
	return d.text.String()
}

func (d *Decoder) Results() []int64 {
	return d.results
}

// Lines splits the text on newlines, dropping a trailing empty line.
func (d *Decoder) Lines() []string {
	s := d.text.String()
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Reset forgets everything written so far.
func (d *Decoder) Reset() {
	d.text.Reset()
	d.results = nil
}

// Decode is a one-shot Decoder over values.
func Decode(values []int64) (string, []int64) {
	var d Decoder
	for _, v := range values {
		d.Write(v)
	}
	return d.Text(), d.Results()
}
