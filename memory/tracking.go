package memory

import (
	"sync/atomic"
)

// Stats is a snapshot of allocator activity.
type Stats struct {
	Allocs     int64 // successful Allocate calls (and Charge calls)
	Frees      int64 // Free calls on non-nil blocks (and Refund calls)
	Reallocs   int64 // successful Reallocate calls
	BytesLive  int64 // bytes currently handed out
	BytesPeak  int64 // highest BytesLive observed
	BytesTotal int64 // bytes handed out over the lifetime
	Failures   int64 // requests that returned an error
}

// Tracking records statistics about the requests it forwards to another
// allocator. It is safe for concurrent use when the inner allocator is.
type Tracking struct {
	inner Allocator

	allocs     atomic.Int64
	frees      atomic.Int64
	reallocs   atomic.Int64
	bytesLive  atomic.Int64
	bytesPeak  atomic.Int64
	bytesTotal atomic.Int64
	failures   atomic.Int64
}

// NewTracking wraps inner. A nil inner uses Default.
func NewTracking(inner Allocator) *Tracking {
	if inner == nil {
		inner = Default
	}
	return &Tracking{inner: inner}
}

// Allocate implements Allocator.
func (t *Tracking) Allocate(size, alignment int) ([]byte, error) {
	block, err := t.inner.Allocate(size, alignment)
	if err != nil {
		t.failures.Add(1)
		return nil, err
	}
	t.allocs.Add(1)
	t.grow(int64(len(block)))
	return block, nil
}

// Reallocate implements Allocator.
func (t *Tracking) Reallocate(block []byte, size, alignment int) ([]byte, error) {
	old := len(block)
	next, err := t.inner.Reallocate(block, size, alignment)
	if err != nil {
		t.failures.Add(1)
		return nil, err
	}
	switch {
	case block == nil:
		t.allocs.Add(1)
	case size == 0:
		t.frees.Add(1)
	default:
		t.reallocs.Add(1)
	}
	if delta := int64(len(next) - old); delta > 0 {
		t.grow(delta)
	} else {
		t.bytesLive.Add(delta)
	}
	return next, nil
}

// Free implements Allocator.
func (t *Tracking) Free(block []byte, alignment int) {
	if block == nil {
		return
	}
	t.inner.Free(block, alignment)
	t.frees.Add(1)
	t.bytesLive.Add(-int64(len(block)))
}

// AllocationSize implements Allocator.
func (t *Tracking) AllocationSize(block []byte) int {
	return t.inner.AllocationSize(block)
}

// Charge implements Accountant.
func (t *Tracking) Charge(size int) error {
	if acc, ok := t.inner.(Accountant); ok {
		if err := acc.Charge(size); err != nil {
			t.failures.Add(1)
			return err
		}
	}
	t.allocs.Add(1)
	t.grow(int64(size))
	return nil
}

// Refund implements Accountant.
func (t *Tracking) Refund(size int) {
	if acc, ok := t.inner.(Accountant); ok {
		acc.Refund(size)
	}
	t.frees.Add(1)
	t.bytesLive.Add(-int64(size))
}

// Stats implements StatsSource.
func (t *Tracking) Stats() Stats {
	return Stats{
		Allocs:     t.allocs.Load(),
		Frees:      t.frees.Load(),
		Reallocs:   t.reallocs.Load(),
		BytesLive:  t.bytesLive.Load(),
		BytesPeak:  t.bytesPeak.Load(),
		BytesTotal: t.bytesTotal.Load(),
		Failures:   t.failures.Load(),
	}
}

// Reset zeroes all counters except BytesLive.
func (t *Tracking) Reset() {
	t.allocs.Store(0)
	t.frees.Store(0)
	t.reallocs.Store(0)
	t.bytesTotal.Store(0)
	t.failures.Store(0)
	t.bytesPeak.Store(t.bytesLive.Load())
}

func (t *Tracking) grow(n int64) {
	t.bytesTotal.Add(n)
	live := t.bytesLive.Add(n)
	for {
		peak := t.bytesPeak.Load()
		if live <= peak || t.bytesPeak.CompareAndSwap(peak, live) {
			return
		}
	}
}
