package memory

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corekit"
)

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func TestHeap_Allocate(t *testing.T) {
	h := NewHeap()

	for _, align := range []int{0, 1, 8, 16, 64, 4096} {
		block, err := h.Allocate(100, align)
		require.NoError(t, err)
		require.Len(t, block, 100)

		want := align
		if want == 0 {
			want = DefaultAlignment
		}
		assert.Zero(t, addrOf(block)%uintptr(want), "alignment %d", align)
		for _, b := range block {
			require.Zero(t, b)
		}
		assert.GreaterOrEqual(t, h.AllocationSize(block), 100)
	}
}

func TestHeap_AllocateZero(t *testing.T) {
	block, err := NewHeap().Allocate(0, 8)
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestHeap_InvalidArguments(t *testing.T) {
	h := NewHeap()

	_, err := h.Allocate(-1, 8)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = h.Allocate(8, 3)
	assert.ErrorIs(t, err, ErrInvalidAlignment)
}

func TestHeap_MaxBlockSize(t *testing.T) {
	h := NewHeap(WithMaxBlockSize(1024))

	_, err := h.Allocate(1024, 8)
	require.NoError(t, err)

	_, err = h.Allocate(1025, 8)
	assert.ErrorIs(t, err, corekit.ErrOutOfMemory)
}

func TestHeap_Reallocate(t *testing.T) {
	h := NewHeap()

	block, err := h.Allocate(16, 8)
	require.NoError(t, err)
	for i := range block {
		block[i] = byte(i + 1)
	}

	grown, err := h.Reallocate(block, 64, 8)
	require.NoError(t, err)
	require.Len(t, grown, 64)
	for i := range 16 {
		assert.Equal(t, byte(i+1), grown[i])
	}
	for i := 16; i < 64; i++ {
		assert.Zero(t, grown[i])
	}

	shrunk, err := h.Reallocate(grown, 4, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, shrunk)

	// growing back within capacity must not expose stale bytes
	again, err := h.Reallocate(shrunk, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, again)

	gone, err := h.Reallocate(again, 0, 8)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestHeap_ReallocateNil(t *testing.T) {
	block, err := NewHeap().Reallocate(nil, 32, 16)
	require.NoError(t, err)
	assert.Len(t, block, 32)
	assert.Zero(t, addrOf(block)%16)
}
