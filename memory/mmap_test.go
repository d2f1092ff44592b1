package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/internal/mmap"
)

func newMmapOrSkip(t *testing.T) *MmapAllocator {
	t.Helper()
	m := NewMmap()
	block, err := m.Allocate(1, 8)
	if err != nil {
		t.Skipf("anonymous mappings unavailable: %v", err)
	}
	m.Free(block, 8)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMmap_AllocateFree(t *testing.T) {
	m := newMmapOrSkip(t)

	block, err := m.Allocate(100, 64)
	require.NoError(t, err)
	require.Len(t, block, 100)
	assert.Zero(t, addrOf(block)%64)
	assert.Equal(t, mmap.PageSize(), m.AllocationSize(block))
	assert.Equal(t, 1, m.Outstanding())

	block[99] = 7
	m.Free(block, 64)
	assert.Equal(t, 0, m.Outstanding())
}

func TestMmap_Reallocate(t *testing.T) {
	m := newMmapOrSkip(t)
	page := mmap.PageSize()

	block, err := m.Allocate(10, 8)
	require.NoError(t, err)
	copy(block, "0123456789")

	inPlace, err := m.Reallocate(block, 20, 8)
	require.NoError(t, err)
	assert.Equal(t, addrOf(block), addrOf(inPlace))
	assert.Equal(t, "0123456789", string(inPlace[:10]))
	assert.Equal(t, make([]byte, 10), inPlace[10:])

	moved, err := m.Reallocate(inPlace, 2*page, 8)
	require.NoError(t, err)
	assert.Len(t, moved, 2*page)
	assert.Equal(t, "0123456789", string(moved[:10]))
	assert.Equal(t, 1, m.Outstanding())

	m.Free(moved, 8)
}

func TestMmap_AlignmentBeyondPage(t *testing.T) {
	m := NewMmap()
	_, err := m.Allocate(8, 2*mmap.PageSize())
	assert.ErrorIs(t, err, ErrInvalidAlignment)
}

func TestMmap_ReallocateChecksAlignment(t *testing.T) {
	m := newMmapOrSkip(t)

	block, err := m.Allocate(8, 8)
	require.NoError(t, err)
	block[0] = 7

	for _, align := range []int{3, -8, 2 * mmap.PageSize()} {
		_, err := m.Reallocate(block, 16, align)
		assert.ErrorIs(t, err, ErrInvalidAlignment)
	}
	assert.Equal(t, 1, m.Outstanding())
	assert.Equal(t, byte(7), block[0])
}

func TestMmap_FreeForeignBlock(t *testing.T) {
	m := NewMmap()
	foreign := make([]byte, 8)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		var ce *corekit.ContractError
		assert.True(t, errors.As(err, &ce))
		assert.ErrorIs(t, err, corekit.ErrInvalidHandle)
	}()
	m.Free(foreign, 8)
}
