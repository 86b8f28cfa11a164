package intcode

import (
	"github.com/colorfulnotion/intcode/vmerrors"
	"golang.org/x/exp/slices"
)

// MaxAddress is the largest address a write may materialise.
const MaxAddress int64 = 1<<32 - 1

// Memory is a zero-initialised tape of signed words. Reads past the end
// return 0; writes past the end grow the tape first.
type Memory struct {
	words []int64
}

// NewMemory returns a tape holding a copy of program.
func NewMemory(program []int64) *Memory {
	return &Memory{words: slices.Clone(program)}
}

// Len is the number of words materialised so far.
func (m *Memory) Len() int {
	return len(m.words)
}

// EnsureLen grows the tape with zeros so that it holds at least n words.
func (m *Memory) EnsureLen(n int) {
	if n <= len(m.words) {
		return
	}
	old := len(m.words)
	m.words = slices.Grow(m.words, n-old)[:n]
	clear(m.words[old:])
}

func (m *Memory) Read(addr int64) (int64, error) {
	if addr < 0 {
		return 0, vmerrors.ErrNegativeAddress
	}
	if addr >= int64(len(m.words)) {
		return 0, nil
	}
	return m.words[addr], nil
}

func (m *Memory) Write(addr int64, value int64) error {
	if addr < 0 {
		return vmerrors.ErrNegativeAddress
	}
	if addr > MaxAddress {
		return vmerrors.ErrAddressTooLarge
	}
	m.EnsureLen(int(addr) + 1)
	m.words[addr] = value
	return nil
}

// Clone returns an independent copy of the tape.
func (m *Memory) Clone() *Memory {
	return &Memory{words: slices.Clone(m.words)}
}

// Snapshot returns a copy of the materialised words.
func (m *Memory) Snapshot() []int64 {
	return slices.Clone(m.words)
}
