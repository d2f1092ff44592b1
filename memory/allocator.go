package memory

import (
	"errors"
	"fmt"
	"math/bits"
)

// DefaultAlignment is the alignment used when a caller passes 0.
const DefaultAlignment = 8

var (
	// ErrInvalidSize is returned for negative or overflowing sizes.
	ErrInvalidSize = errors.New("memory: invalid size")
	// ErrInvalidAlignment is returned for alignments that are not a power of two
	// or exceed what the allocator can provide.
	ErrInvalidAlignment = errors.New("memory: invalid alignment")
)

// Allocator is the facade through which every container obtains raw memory.
type Allocator interface {
	// Allocate returns a zeroed block of size bytes whose first byte is aligned
	// to alignment. Size 0 returns nil.
	Allocate(size, alignment int) ([]byte, error)
	// Reallocate resizes block, possibly moving it. The first min(old, new)
	// bytes are preserved and the old block must not be used afterwards.
	Reallocate(block []byte, size, alignment int) ([]byte, error)
	// Free releases block. Freeing nil is a no-op.
	Free(block []byte, alignment int)
	// AllocationSize reports the usable size of block, which may exceed the
	// requested size. It is meant for diagnostics only.
	AllocationSize(block []byte) int
}

// Accountant is implemented by allocators that track bytes which live outside
// their own blocks (pointer-holding element storage on the Go heap).
type Accountant interface {
	Charge(size int) error
	Refund(size int)
}

// StatsSource is implemented by allocators that keep statistics.
type StatsSource interface {
	Stats() Stats
}

// Default is the allocator used by containers constructed without one.
var Default Allocator = NewHeap()

// Copy copies min(len(dst), len(src)) bytes from src to dst.
// The ranges must not overlap.
func Copy(dst, src []byte) int {
	return copy(dst, src)
}

func normalizeAlignment(alignment int) (int, error) {
	if alignment == 0 {
		return DefaultAlignment, nil
	}
	if alignment < 0 || bits.OnesCount(uint(alignment)) != 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlignment, alignment)
	}
	return alignment, nil
}

func checkSize(size int) error {
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

// mulSize returns n*elem, failing on overflow.
func mulSize(n, elem int) (int, error) {
	if n < 0 || elem < 0 {
		return 0, fmt.Errorf("%w: %d x %d", ErrInvalidSize, n, elem)
	}
	hi, lo := bits.Mul(uint(n), uint(elem))
	if hi != 0 || lo > uint(maxInt) {
		return 0, fmt.Errorf("%w: %d x %d overflows", ErrInvalidSize, n, elem)
	}
	return int(lo), nil
}

const maxInt = int(^uint(0) >> 1)
