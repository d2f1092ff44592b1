package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corekit"
)

func TestBuffer_Trivial(t *testing.T) {
	tr := NewTracking(nil)
	var b Buffer[int64]

	require.NoError(t, b.Grow(tr, 4, 0))
	assert.Equal(t, 4, b.Cap())
	assert.Equal(t, 32, b.Bytes())
	for i := range b.Slice() {
		b.Slice()[i] = int64(i + 1)
	}

	require.NoError(t, b.Grow(tr, 16, 4))
	assert.Equal(t, []int64{1, 2, 3, 4}, b.Slice()[:4])
	assert.Equal(t, int64(128), tr.Stats().BytesLive)

	b.Free(tr)
	assert.Zero(t, b.Cap())
	assert.Zero(t, tr.Stats().BytesLive)
}

func TestBuffer_Managed(t *testing.T) {
	tr := NewTracking(nil)
	var b Buffer[string]

	require.NoError(t, b.Grow(tr, 2, 0))
	b.Slice()[0] = "a"
	b.Slice()[1] = "b"

	require.NoError(t, b.Grow(tr, 8, 2))
	assert.Equal(t, []string{"a", "b"}, b.Slice()[:2])
	assert.Equal(t, int64(8*SizeOf[string]()), tr.Stats().BytesLive)

	b.Free(tr)
	assert.Zero(t, tr.Stats().BytesLive)
}

func TestBuffer_Shrink(t *testing.T) {
	var b Buffer[int32]
	require.NoError(t, b.Grow(nil, 10, 0))
	b.Slice()[2] = 3

	require.NoError(t, b.Grow(nil, 3, 3))
	assert.Equal(t, []int32{0, 0, 3}, b.Slice())

	require.NoError(t, b.Grow(nil, 0, 0))
	assert.Zero(t, b.Cap())
}

func TestBuffer_OutOfMemory(t *testing.T) {
	budget := NewBudgeted(nil, 64)

	var trivial Buffer[int64]
	require.NoError(t, trivial.Grow(budget, 8, 0))
	err := trivial.Grow(budget, 9, 8)
	require.ErrorIs(t, err, corekit.ErrOutOfMemory)
	assert.Equal(t, 8, trivial.Cap())
	trivial.Free(budget)

	var managed Buffer[*int]
	err = managed.Grow(budget, 100, 0)
	require.ErrorIs(t, err, corekit.ErrOutOfMemory)
	assert.Zero(t, managed.Cap())
	assert.Zero(t, budget.Used())
}

func TestBuffer_Take(t *testing.T) {
	var b Buffer[int]
	require.NoError(t, b.Grow(nil, 4, 0))

	moved := b.Take()
	assert.Zero(t, b.Cap())
	assert.Equal(t, 4, moved.Cap())
}

func TestBuffer_GrowBelowLive(t *testing.T) {
	var b Buffer[int]
	require.NoError(t, b.Grow(nil, 4, 0))
	assert.Panics(t, func() { _ = b.Grow(nil, 2, 3) })
}

func TestRelocate(t *testing.T) {
	src := []int{1, 2, 3}
	dst := make([]int, 2)
	assert.Equal(t, 2, Relocate(dst, src))
	assert.Equal(t, []int{1, 2}, dst)
	assert.Equal(t, []int{1, 2, 3}, src)

	names := []string{"a", "b"}
	moved := make([]string, 4)
	assert.Equal(t, 2, Relocate(moved, names))
	assert.Equal(t, []string{"a", "b", "", ""}, moved)
	assert.Equal(t, []string{"", ""}, names)
}
