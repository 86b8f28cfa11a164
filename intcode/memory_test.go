package intcode

import (
	"math"
	"testing"

	"github.com/colorfulnotion/intcode/vmerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryZeroFill(t *testing.T) {
	m := NewMemory([]int64{1, 2, 3})
	for addr := int64(3); addr < 50; addr++ {
		v, err := m.Read(addr)
		require.NoError(t, err)
		assert.Zero(t, v)
	}
	assert.Equal(t, 3, m.Len(), "reads never grow the tape")

	require.NoError(t, m.Write(40, -7))
	assert.Equal(t, 41, m.Len())
	v, err := m.Read(40)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), v)
	for addr := int64(3); addr < 40; addr++ {
		v, _ := m.Read(addr)
		assert.Zero(t, v, "addr %d", addr)
	}
}

func TestMemoryNegativeAddress(t *testing.T) {
	m := NewMemory(nil)
	_, err := m.Read(-1)
	assert.ErrorIs(t, err, vmerrors.ErrNegativeAddress)
	assert.ErrorIs(t, m.Write(-5, 1), vmerrors.ErrNegativeAddress)
	assert.Zero(t, m.Len())
}

func TestMemoryAddressLimit(t *testing.T) {
	m := NewMemory([]int64{1, 2, 3})
	assert.ErrorIs(t, m.Write(math.MaxInt64, 1), vmerrors.ErrAddressTooLarge)
	assert.ErrorIs(t, m.Write(MaxAddress+1, 1), vmerrors.ErrAddressTooLarge)
	assert.Equal(t, 3, m.Len())

	v, err := m.Read(math.MaxInt64)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestMemoryCloneIsIndependent(t *testing.T) {
	prog := []int64{1, 2, 3}
	m := NewMemory(prog)
	prog[0] = 100
	c := m.Clone()
	require.NoError(t, c.Write(0, 9))
	require.NoError(t, c.Write(10, 9))

	v, _ := m.Read(0)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []int64{1, 2, 3}, m.Snapshot())
}

func TestMemoryEnsureLen(t *testing.T) {
	m := NewMemory([]int64{5})
	m.EnsureLen(4)
	assert.Equal(t, []int64{5, 0, 0, 0}, m.Snapshot())
	m.EnsureLen(2)
	assert.Equal(t, 4, m.Len())
}

func TestInputQueue(t *testing.T) {
	q := NewInputQueue(1, 2)
	v, ok := q.Next()
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, 1, q.Pending())

	q.Next()
	assert.True(t, q.Exhausted())
	v, ok = q.Next()
	assert.False(t, ok)
	assert.Equal(t, int64(2), v, "exhausted queue repeats its last value")

	q.Push(3, -1)
	assert.Equal(t, []int64{3, -1}, q.Values())
	assert.False(t, q.DrainedTo(-1))
	q.Next()
	assert.True(t, q.DrainedTo(-1))

	q.Replace(8)
	assert.Equal(t, []int64{8}, q.Values())

	empty := NewInputQueue()
	v, ok = empty.Next()
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.False(t, empty.DrainedTo(-1))
}

func TestInputQueueCompaction(t *testing.T) {
	q := NewInputQueue()
	for i := 0; i < 3*compactThreshold; i++ {
		q.Push(int64(i), -1)
		v, ok := q.Next()
		require.True(t, ok)
		require.Equal(t, int64(i), v)
		v, _ = q.Next()
		require.Equal(t, int64(-1), v)
	}
	assert.True(t, q.Exhausted())
	assert.Less(t, len(q.values), 2*compactThreshold)
	v, ok := q.Next()
	assert.False(t, ok)
	assert.Equal(t, int64(-1), v)
}
