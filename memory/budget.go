package memory

import (
	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/internal/resource"
)

// Budgeted enforces a hard byte budget on top of another allocator.
//
// Requests that would exceed the budget fail with corekit.ErrOutOfMemory
// without reaching the inner allocator.
type Budgeted struct {
	inner Allocator
	ctrl  *resource.Controller
}

// NewBudgeted wraps inner with a budget of limit bytes (0 = unlimited, tracking only).
func NewBudgeted(inner Allocator, limit int64) *Budgeted {
	if inner == nil {
		inner = Default
	}
	return &Budgeted{
		inner: inner,
		ctrl:  resource.NewController(resource.Config{MemoryLimitBytes: limit}),
	}
}

// Allocate implements Allocator.
func (b *Budgeted) Allocate(size, alignment int) ([]byte, error) {
	if err := b.acquire("memory.Budgeted.Allocate", size); err != nil {
		return nil, err
	}
	block, err := b.inner.Allocate(size, alignment)
	if err != nil {
		b.release(size)
		return nil, err
	}
	return block, nil
}

// Reallocate implements Allocator.
func (b *Budgeted) Reallocate(block []byte, size, alignment int) ([]byte, error) {
	delta := size - len(block)
	if delta > 0 {
		if err := b.acquire("memory.Budgeted.Reallocate", delta); err != nil {
			return nil, err
		}
	}

	next, err := b.inner.Reallocate(block, size, alignment)
	if err != nil {
		if delta > 0 {
			b.release(delta)
		}
		return nil, err
	}

	if delta < 0 {
		b.release(-delta)
	}
	return next, nil
}

// Free implements Allocator.
func (b *Budgeted) Free(block []byte, alignment int) {
	if block == nil {
		return
	}
	b.inner.Free(block, alignment)
	b.release(len(block))
}

// AllocationSize implements Allocator.
func (b *Budgeted) AllocationSize(block []byte) int {
	return b.inner.AllocationSize(block)
}

// Charge implements Accountant.
func (b *Budgeted) Charge(size int) error {
	if err := b.acquire("memory.Budgeted.Charge", size); err != nil {
		return err
	}
	if acc, ok := b.inner.(Accountant); ok {
		if err := acc.Charge(size); err != nil {
			b.release(size)
			return err
		}
	}
	return nil
}

// Refund implements Accountant.
func (b *Budgeted) Refund(size int) {
	if acc, ok := b.inner.(Accountant); ok {
		acc.Refund(size)
	}
	b.release(size)
}

// Used returns the bytes currently reserved.
func (b *Budgeted) Used() int64 {
	return b.ctrl.MemoryUsage()
}

// Peak returns the highest reservation observed.
func (b *Budgeted) Peak() int64 {
	return b.ctrl.MemoryPeak()
}

// Limit returns the budget in bytes (0 = unlimited).
func (b *Budgeted) Limit() int64 {
	return b.ctrl.MemoryLimit()
}

func (b *Budgeted) acquire(op string, size int) error {
	if err := b.ctrl.AcquireMemory(int64(size)); err != nil {
		return corekit.OutOfMemory(op, size, err)
	}
	return nil
}

func (b *Budgeted) release(size int) {
	b.ctrl.ReleaseMemory(int64(size))
}
