package pool

import (
	"log/slog"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/internal/conv"
	"github.com/hupe1980/corekit/memory"
)

// Pool is a slab allocator for values of type T.
type Pool[T any] struct {
	alloc     memory.Allocator
	logger    *corekit.Logger
	policy    Policy
	increment int

	slabs []memory.Buffer[T]
	bases []int                 // global index of each slab's first slot
	free  memory.Buffer[Handle] // stack of free handles
	nfree int
	live  bitset.BitSet         // by global slot index
	gens  memory.Buffer[uint32] // generation of the handle last issued per slot
	stamp uint32                // last generation issued, survives Release

	size      int
	allocated int
}

// New creates an empty pool. No slab is acquired until the first Allocate.
func New[T any](opts ...Option) *Pool[T] {
	o := options{
		alloc:     memory.Default,
		policy:    Linear,
		increment: DefaultLinearIncrement,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = memory.Default
	}

	return &Pool[T]{
		alloc:     o.alloc,
		logger:    o.logger.WithContainer("pool"),
		policy:    o.policy,
		increment: o.increment,
	}
}

// Allocate stores v in a free slot and returns its handle.
func (p *Pool[T]) Allocate(v T) (Handle, error) {
	h, err := p.take()
	if err != nil {
		return Nil, err
	}
	*p.slot(h) = v
	return h, nil
}

// AllocateZero returns the handle of a zero-valued slot.
func (p *Pool[T]) AllocateZero() (Handle, error) {
	return p.take()
}

func (p *Pool[T]) take() (Handle, error) {
	if p.nfree == 0 {
		if err := p.grow(p.nextSlabSize()); err != nil {
			return Nil, err
		}
	}

	p.nfree--
	h := p.free.Slice()[p.nfree]
	i := p.index(h)

	p.stamp++
	h.gen = p.stamp
	p.gens.Slice()[i] = h.gen
	p.live.Set(uint(i))
	p.allocated++
	return h, nil
}

func (p *Pool[T]) nextSlabSize() int {
	if p.policy == Exponential {
		if p.size == 0 {
			return 16
		}
		return p.size
	}
	return p.increment
}

// Get returns a pointer to the value behind h. It panics with
// corekit.ErrInvalidHandle if h is nil, foreign or freed, including when its
// slot has been handed out again since.
func (p *Pool[T]) Get(h Handle) *T {
	p.check("pool.Get", h)
	return p.slot(h)
}

// Free zeroes the slot behind h and makes it available again. Freeing a
// handle twice panics with corekit.ErrInvalidHandle.
func (p *Pool[T]) Free(h Handle) {
	p.check("pool.Free", h)

	var zero T
	*p.slot(h) = zero

	p.live.Clear(uint(p.index(h)))
	p.free.Slice()[p.nfree] = h
	p.nfree++
	p.allocated--
}

// Resize grows the pool to n slots by acquiring one slab. It never shrinks.
func (p *Pool[T]) Resize(n int) error {
	if n <= p.size {
		return nil
	}
	return p.grow(n - p.size)
}

// Size returns the number of slots across all slabs.
func (p *Pool[T]) Size() int { return p.size }

// Allocated returns the number of slots in use.
func (p *Pool[T]) Allocated() int { return p.allocated }

// Available returns the number of free slots.
func (p *Pool[T]) Available() int { return p.size - p.allocated }

// Blocks returns the number of slabs.
func (p *Pool[T]) Blocks() int { return len(p.slabs) }

// IsEmpty reports whether the pool holds no slab.
func (p *Pool[T]) IsEmpty() bool { return len(p.slabs) == 0 }

// Policy returns the growth policy.
func (p *Pool[T]) Policy() Policy { return p.policy }

// Contains reports whether h refers to a live slot of this pool.
func (p *Pool[T]) Contains(h Handle) bool {
	if h.IsNil() || int(h.block) > len(p.slabs) || int(h.slot) >= p.slabs[h.block-1].Cap() {
		return false
	}
	i := p.index(h)
	return p.live.Test(uint(i)) && p.gens.Slice()[i] == h.gen
}

// Move transfers every slab to a new pool and leaves p empty.
func (p *Pool[T]) Move() *Pool[T] {
	out := &Pool[T]{
		alloc:     p.alloc,
		logger:    p.logger,
		policy:    p.policy,
		increment: p.increment,
		slabs:     p.slabs,
		bases:     p.bases,
		free:      p.free.Take(),
		nfree:     p.nfree,
		live:      p.live,
		gens:      p.gens.Take(),
		stamp:     p.stamp,
		size:      p.size,
		allocated: p.allocated,
	}
	p.reset()
	return out
}

// Release frees every slab in reverse acquisition order, whether or not
// handles are still outstanding. The pool remains usable.
func (p *Pool[T]) Release() {
	blocks := len(p.slabs)
	for i := blocks - 1; i >= 0; i-- {
		p.slabs[i].Free(p.alloc)
	}
	p.free.Free(p.alloc)
	p.gens.Free(p.alloc)

	if blocks > 0 && p.logger.Enabled(slog.LevelDebug) {
		p.logger.Debug("pool released", "blocks", blocks, "slots", p.size)
	}
	p.reset()
}

func (p *Pool[T]) reset() {
	p.slabs = nil
	p.bases = nil
	p.free = memory.Buffer[Handle]{}
	p.nfree = 0
	p.live = bitset.BitSet{}
	p.gens = memory.Buffer[uint32]{}
	p.size = 0
	p.allocated = 0
}

func (p *Pool[T]) grow(n int) error {
	block, err := conv.IntToUint32(len(p.slabs) + 1)
	if err != nil {
		return corekit.OutOfMemory("pool.grow", n, err)
	}
	if _, err := conv.IntToUint32(n); err != nil {
		return corekit.OutOfMemory("pool.grow", n, err)
	}

	// Room for every slot on the free stack, so Free never allocates.
	if err := p.free.Grow(p.alloc, p.size+n, p.nfree); err != nil {
		p.logger.LogAllocFailure("pool.grow", p.size+n, err)
		return err
	}

	if err := p.gens.Grow(p.alloc, p.size+n, p.size); err != nil {
		p.logger.LogAllocFailure("pool.grow", p.size+n, err)
		return err
	}

	var slab memory.Buffer[T]
	if err := slab.Grow(p.alloc, n, 0); err != nil {
		p.logger.LogAllocFailure("pool.grow", n, err)
		return err
	}

	p.slabs = append(p.slabs, slab)
	p.bases = append(p.bases, p.size)

	// Push in reverse so the lowest slot is handed out first.
	stack := p.free.Slice()
	for i := n - 1; i >= 0; i-- {
		stack[p.nfree] = Handle{block: block, slot: uint32(i)} //nolint:gosec // bounded above
		p.nfree++
	}
	p.size += n

	if p.logger.Enabled(slog.LevelDebug) {
		p.logger.Debug("pool block acquired",
			"slots", n,
			"total", p.size,
			"policy", p.policy.String(),
		)
	}
	return nil
}

func (p *Pool[T]) check(op string, h Handle) {
	if h.IsNil() {
		corekit.Violation(op, corekit.ErrInvalidHandle, "nil handle")
	}
	if int(h.block) > len(p.slabs) || int(h.slot) >= p.slabs[h.block-1].Cap() {
		corekit.Violation(op, corekit.ErrInvalidHandle, "%s does not belong to this pool", h)
	}
	i := p.index(h)
	if !p.live.Test(uint(i)) {
		corekit.Violation(op, corekit.ErrInvalidHandle, "%s is not allocated", h)
	}
	if p.gens.Slice()[i] != h.gen {
		corekit.Violation(op, corekit.ErrInvalidHandle, "%s is stale, its slot was reused", h)
	}
}

func (p *Pool[T]) index(h Handle) int {
	return p.bases[h.block-1] + int(h.slot)
}

func (p *Pool[T]) slot(h Handle) *T {
	return &p.slabs[h.block-1].Slice()[h.slot]
}
