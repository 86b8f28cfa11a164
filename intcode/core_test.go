package intcode

import (
	"errors"
	"math"
	"testing"

	"github.com/colorfulnotion/intcode/intcode/program"
	"github.com/colorfulnotion/intcode/intcode/trace"
	"github.com/colorfulnotion/intcode/vmerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, listing string) []int64 {
	t.Helper()
	words, err := program.Parse(listing)
	require.NoError(t, err)
	return words
}

func TestHaltOnly(t *testing.T) {
	c := New([]int64{99}, nil)
	outputs := 0
	state, err := c.Run(true, func(v int64) Action {
		outputs++
		return Continue()
	})
	require.NoError(t, err)
	assert.Equal(t, Halted, state)
	assert.Zero(t, outputs)
	assert.Equal(t, []int64{99}, c.Memory().Snapshot())
	assert.Equal(t, int64(0), c.IP())
	assert.Equal(t, uint64(1), c.Steps())

	// halted is terminal
	state, err = c.Run(false, nil)
	require.NoError(t, err)
	assert.Equal(t, Halted, state)
	_, err = c.Step(false)
	assert.ErrorIs(t, err, vmerrors.ErrMachineHalted)
}

func TestSelfAdd(t *testing.T) {
	c := New(mustParse(t, "1,0,0,0,99"), nil)
	state, err := c.Run(false, nil)
	require.NoError(t, err)
	assert.Equal(t, Halted, state)
	v, _ := c.Peek(0)
	assert.Equal(t, int64(2), v)
}

func TestArithmeticPrograms(t *testing.T) {
	testCases := []struct {
		listing string
		want    []int64
	}{
		{"1,9,10,3,2,3,11,0,99,30,40,50", []int64{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}},
		{"2,3,0,3,99", []int64{2, 3, 0, 6, 99}},
		{"2,4,4,5,99,0", []int64{2, 4, 4, 5, 99, 9801}},
		{"1,1,1,4,99,5,6,0,99", []int64{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{"1002,4,3,4,33", []int64{1002, 4, 3, 4, 99}},
		{"1101,100,-1,4,0", []int64{1101, 100, -1, 4, 99}},
	}
	for _, tc := range testCases {
		t.Run(tc.listing, func(t *testing.T) {
			c := New(mustParse(t, tc.listing), nil)
			state, err := c.Run(false, nil)
			require.NoError(t, err)
			assert.Equal(t, Halted, state)
			assert.Equal(t, tc.want, c.Memory().Snapshot())
		})
	}
}

func TestEcho(t *testing.T) {
	c := New(mustParse(t, "3,0,4,0,99"), []int64{42})
	out, err := c.RunCollect()
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, out)
}

func TestQuine(t *testing.T) {
	listing := "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"
	prog := mustParse(t, listing)
	out, err := New(prog, nil).RunCollect()
	require.NoError(t, err)
	assert.Equal(t, prog, out)
}

func TestLargeWords(t *testing.T) {
	out, err := New(mustParse(t, "1102,34915192,34915192,7,4,7,99,0"), nil).RunCollect()
	require.NoError(t, err)
	assert.Equal(t, []int64{1219070632396864}, out)

	out, err = New(mustParse(t, "104,1125899906842624,99"), nil).RunCollect()
	require.NoError(t, err)
	assert.Equal(t, []int64{1125899906842624}, out)
}

func TestComparisonsAndJumps(t *testing.T) {
	const compare8 = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"
	testCases := []struct {
		name    string
		listing string
		input   int64
		want    int64
	}{
		{"eq position", "3,9,8,9,10,9,4,9,99,-1,8", 8, 1},
		{"eq position miss", "3,9,8,9,10,9,4,9,99,-1,8", 7, 0},
		{"lt position", "3,9,7,9,10,9,4,9,99,-1,8", 5, 1},
		{"eq immediate", "3,3,1108,-1,8,3,4,3,99", 8, 1},
		{"lt immediate", "3,3,1107,-1,8,3,4,3,99", 9, 0},
		{"jump position zero", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 0, 0},
		{"jump immediate nonzero", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", 3, 1},
		{"below 8", compare8, 7, 999},
		{"equal 8", compare8, 8, 1000},
		{"above 8", compare8, 9, 1001},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := New(mustParse(t, tc.listing), []int64{tc.input}).RunCollect()
			require.NoError(t, err)
			assert.Equal(t, []int64{tc.want}, out)
		})
	}
}

func TestRelativeWrites(t *testing.T) {
	// ARB #10; IN -> rb+5 ; OUT [15] ; HALT
	prog := []int64{109, 10, 203, 5, 4, 15, 99}
	c := New(prog, []int64{77})
	out, err := c.RunCollect()
	require.NoError(t, err)
	assert.Equal(t, []int64{77}, out)
	assert.Equal(t, int64(10), c.RelativeBase())
	v, _ := c.Peek(15)
	assert.Equal(t, int64(77), v)

	// ADD with an immediate-mode destination writes to the address in the parameter.
	c = New([]int64{11101, 2, 3, 6, 99, 0, 0}, nil)
	_, err = c.Run(false, nil)
	require.NoError(t, err)
	v, _ = c.Peek(6)
	assert.Equal(t, int64(5), v)
}

func TestEffectiveAddress(t *testing.T) {
	for _, base := range []int64{-50, 0, 7, 1000} {
		for _, p := range []int64{-3, 0, 12} {
			assert.Equal(t, base+p, EffectiveAddress(program.Relative, p, base))
			assert.Equal(t, p, EffectiveAddress(program.Position, p, base))
		}
	}
}

func TestWriteBeyondEnd(t *testing.T) {
	// ADD #3, #4 -> [1000]
	c := New([]int64{1101, 3, 4, 1000, 99}, nil)
	for addr := int64(5); addr <= 1000; addr++ {
		v, err := c.Peek(addr)
		require.NoError(t, err)
		require.Zero(t, v)
	}
	_, err := c.Run(false, nil)
	require.NoError(t, err)
	v, _ := c.Peek(1000)
	assert.Equal(t, int64(7), v)
	assert.Equal(t, 1001, c.Memory().Len())
	v, _ = c.Peek(999)
	assert.Zero(t, v)
}

func TestInputSuspension(t *testing.T) {
	c := New([]int64{3, 9, 3, 10, 99}, nil)
	state, err := c.Run(true, nil)
	require.NoError(t, err)
	assert.Equal(t, WaitingForInput, state)
	assert.Equal(t, int64(0), c.IP())
	assert.Zero(t, c.Steps())

	// still blocked while nothing is queued
	state, err = c.Run(true, nil)
	require.NoError(t, err)
	assert.Equal(t, WaitingForInput, state)
	assert.Equal(t, int64(0), c.IP())

	c.PushInput(7)
	state, err = c.Run(true, nil)
	require.NoError(t, err)
	assert.Equal(t, WaitingForInput, state)
	assert.Equal(t, int64(2), c.IP())
	v, _ := c.Peek(9)
	assert.Equal(t, int64(7), v)
	assert.True(t, c.InputExhausted())

	c.PushInput(8)
	state, err = c.Run(true, nil)
	require.NoError(t, err)
	assert.Equal(t, Halted, state)
	v, _ = c.Peek(10)
	assert.Equal(t, int64(8), v)
}

func TestInputRepeatsLastWithoutSuspension(t *testing.T) {
	prog := []int64{3, 11, 3, 12, 4, 11, 4, 12, 99}
	out, err := New(prog, []int64{5}).RunCollect()
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 5}, out)

	out, err = New(prog, nil).RunCollect()
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0}, out)

	c := New(prog, []int64{4, 9})
	_, ok := New(prog, nil).LastInput()
	assert.False(t, ok)
	last, ok := c.LastInput()
	assert.True(t, ok)
	assert.Equal(t, int64(9), last)
}

func TestOutputActions(t *testing.T) {
	// loop: IN -> [100]; OUT [100]; JNZ #1, #0
	prog := []int64{3, 100, 4, 100, 1105, 1, 0}
	c := New(prog, []int64{1})
	var seen []int64
	state, err := c.Run(true, func(v int64) Action {
		seen = append(seen, v)
		if v == 5 {
			return Stop()
		}
		return Feed(v + 1)
	})
	require.NoError(t, err)
	assert.Equal(t, Running, state)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, seen)
	assert.Equal(t, int64(4), c.IP(), "stop returns after the output instruction completed")

	// resumable after stop; nothing queued so it suspends
	state, err = c.Run(true, nil)
	require.NoError(t, err)
	assert.Equal(t, WaitingForInput, state)

	c.PushInput(10, 11)
	seen = nil
	_, err = c.Run(true, func(v int64) Action {
		seen = append(seen, v)
		if v == 10 {
			return Action{Append: []int64{20}, Replace: true}
		}
		return Stop()
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, seen, "replace drops the queued 11")
}

func TestRunUntilOutput(t *testing.T) {
	c := New([]int64{104, 1, 104, 2, 104, 3, 99}, nil)
	out, state, err := c.RunUntilOutput(true, 2)
	require.NoError(t, err)
	assert.Equal(t, Running, state)
	assert.Equal(t, []int64{1, 2}, out)

	out, state, err = c.RunUntilOutput(true, 2)
	require.NoError(t, err)
	assert.Equal(t, Halted, state)
	assert.Equal(t, []int64{3}, out)
}

func TestClone(t *testing.T) {
	prog := []int64{3, 100, 4, 100, 1105, 1, 0}
	a := New(prog, []int64{1})
	_, err := a.Run(true, nil)
	require.NoError(t, err)

	b := a.Clone()
	a.PushInput(10)
	b.PushInput(20)
	outA, _, err := a.RunUntilOutput(true, 1)
	require.NoError(t, err)
	outB, _, err := b.RunUntilOutput(true, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, outA)
	assert.Equal(t, []int64{20}, outB)

	va, _ := a.Peek(100)
	vb, _ := b.Peek(100)
	assert.Equal(t, int64(10), va)
	assert.Equal(t, int64(20), vb)
}

func TestPoke(t *testing.T) {
	c := New([]int64{1, 0, 0, 0, 99}, nil)
	require.NoError(t, c.Poke(1, 4))
	require.NoError(t, c.Poke(2, 4))
	_, err := c.Run(false, nil)
	require.NoError(t, err)
	v, _ := c.Peek(0)
	assert.Equal(t, int64(198), v)
	assert.ErrorIs(t, c.Poke(-1, 0), vmerrors.ErrNegativeAddress)
}

func TestFaults(t *testing.T) {
	testCases := []struct {
		name string
		prog []int64
		want error
		ip   int64
		addr int64
	}{
		{"negative read", []int64{1, -1, 0, 0, 99}, vmerrors.ErrNegativeAddress, 0, -1},
		{"negative write", []int64{1101, 1, 1, -4, 99}, vmerrors.ErrNegativeAddress, 0, -4},
		{"negative relative", []int64{109, -10, 204, 0, 99}, vmerrors.ErrNegativeAddress, 2, -10},
		{"negative jump", []int64{1105, 1, -2}, vmerrors.ErrNegativeAddress, -2, -2},
		{"write past max address", []int64{1101, 1, 1, math.MaxInt64, 99}, vmerrors.ErrAddressTooLarge, 0, math.MaxInt64},
		{"relative write past max address", []int64{109, MaxAddress, 21101, 1, 1, 1, 99}, vmerrors.ErrAddressTooLarge, 2, MaxAddress + 1},
		{"invalid opcode", []int64{1101, 40, 2, 4, 99}, vmerrors.ErrInvalidOpcode, 4, 4},
		{"opcode zero past end", []int64{104, 1}, vmerrors.ErrInvalidOpcode, 2, 2},
		{"bad mode", []int64{301, 0, 0, 0, 99}, vmerrors.ErrBadParameterMode, 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.prog, nil)
			_, err := c.Run(false, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, vmerrors.IsFatal(err))

			var f *vmerrors.Fault
			require.True(t, errors.As(err, &f))
			assert.Equal(t, tc.ip, f.IP)
			assert.Equal(t, tc.addr, f.Addr)

			// poisoned: the same fault comes back without executing
			steps := c.Steps()
			_, again := c.Run(false, nil)
			assert.Equal(t, err, again)
			assert.Equal(t, steps, c.Steps())
			assert.NotEqual(t, Halted, c.State())
		})
	}
}

func TestTrace(t *testing.T) {
	rec := &trace.Recorder{}
	c := New([]int64{3, 9, 4, 9, 99}, nil).WithTrace(rec)
	c.SetIdentifier("n0")

	_, err := c.Run(true, nil)
	require.NoError(t, err)
	assert.Empty(t, rec.Steps, "a suspended input is not traced")

	c.PushInput(6)
	_, err = c.Run(true, nil)
	require.NoError(t, err)
	require.Len(t, rec.Steps, 3)

	in := rec.Steps[0]
	assert.Equal(t, "IN", in.Mnemonic)
	assert.Equal(t, "n0", in.Node)
	assert.Equal(t, &trace.Write{Addr: 9, Value: 6}, in.Wrote)
	require.NotNil(t, in.Input)
	assert.Equal(t, int64(6), *in.Input)

	out := rec.Steps[1]
	require.NotNil(t, out.Output)
	assert.Equal(t, int64(6), *out.Output)
	assert.Equal(t, []int64{9}, out.Params)

	assert.Equal(t, "halted", rec.Steps[2].PostState)
	assert.Equal(t, uint64(3), rec.Steps[2].Step)
}
