package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corekit"
)

func TestTracking_Stats(t *testing.T) {
	tr := NewTracking(NewHeap())

	a, err := tr.Allocate(100, 8)
	require.NoError(t, err)
	b, err := tr.Allocate(50, 8)
	require.NoError(t, err)

	b, err = tr.Reallocate(b, 150, 8)
	require.NoError(t, err)

	tr.Free(a, 8)

	s := tr.Stats()
	assert.Equal(t, int64(2), s.Allocs)
	assert.Equal(t, int64(1), s.Reallocs)
	assert.Equal(t, int64(1), s.Frees)
	assert.Equal(t, int64(150), s.BytesLive)
	assert.Equal(t, int64(250), s.BytesPeak)
	assert.Equal(t, int64(250), s.BytesTotal)

	tr.Free(b, 8)
	assert.Equal(t, int64(0), tr.Stats().BytesLive)
}

func TestTracking_Failures(t *testing.T) {
	tr := NewTracking(NewHeap(WithMaxBlockSize(16)))

	_, err := tr.Allocate(17, 8)
	require.ErrorIs(t, err, corekit.ErrOutOfMemory)
	assert.Equal(t, int64(1), tr.Stats().Failures)
	assert.Equal(t, int64(0), tr.Stats().Allocs)
}

func TestTracking_Reset(t *testing.T) {
	tr := NewTracking(nil)
	_, err := tr.Allocate(10, 8)
	require.NoError(t, err)

	tr.Reset()
	s := tr.Stats()
	assert.Zero(t, s.Allocs)
	assert.Equal(t, int64(10), s.BytesLive)
	assert.Equal(t, int64(10), s.BytesPeak)
}

func TestTracking_Concurrent(t *testing.T) {
	tr := NewTracking(nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				block, err := tr.Allocate(32, 8)
				if err != nil {
					t.Error(err)
					return
				}
				tr.Free(block, 8)
			}
		}()
	}
	wg.Wait()

	s := tr.Stats()
	assert.Equal(t, int64(800), s.Allocs)
	assert.Equal(t, int64(800), s.Frees)
	assert.Zero(t, s.BytesLive)
}

func TestTracking_ReallocateEdges(t *testing.T) {
	tr := NewTracking(nil)

	block, err := tr.Reallocate(nil, 16, 8)
	require.NoError(t, err)
	_, err = tr.Reallocate(block, 0, 8)
	require.NoError(t, err)

	s := tr.Stats()
	assert.Equal(t, int64(1), s.Allocs)
	assert.Equal(t, int64(1), s.Frees)
	assert.Zero(t, s.Reallocs)
	assert.Zero(t, s.BytesLive)
}
