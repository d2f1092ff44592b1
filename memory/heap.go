package memory

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/corekit"
)

// Heap allocates blocks on the Go heap.
//
// Alignment is obtained by over-allocating alignment-1 bytes and shifting the
// start of the returned slice. The underlying array is kept alive by the
// returned slice. Free only drops the caller's reference; the collector
// reclaims the block.
type Heap struct {
	maxSize int
}

// HeapOption configures a Heap.
type HeapOption func(*Heap)

// WithMaxBlockSize caps the size of a single block. Larger requests fail with
// corekit.ErrOutOfMemory instead of reaching the runtime.
func WithMaxBlockSize(size int) HeapOption {
	return func(h *Heap) {
		h.maxSize = size
	}
}

// NewHeap creates a Go heap allocator.
func NewHeap(opts ...HeapOption) *Heap {
	h := &Heap{maxSize: 1 << 46}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Allocate implements Allocator.
func (h *Heap) Allocate(size, alignment int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	align, err := normalizeAlignment(alignment)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	if size > h.maxSize || size > maxInt-align {
		return nil, corekit.OutOfMemory("memory.Heap.Allocate", size, nil)
	}
	return h.allocAligned(size, align)
}

func (h *Heap) allocAligned(size, align int) (block []byte, err error) {
	defer func() {
		// makeslice reports impossible lengths with a runtime panic
		if r := recover(); r != nil {
			block = nil
			err = corekit.OutOfMemory("memory.Heap.Allocate", size, fmt.Errorf("%v", r))
		}
	}()

	buf := make([]byte, size+align-1)

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // unsafe is required for memory alignment
	offset := int((uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1))

	return buf[offset : offset+size : len(buf)], nil
}

// Reallocate implements Allocator.
func (h *Heap) Reallocate(block []byte, size, alignment int) ([]byte, error) {
	if block == nil {
		return h.Allocate(size, alignment)
	}
	if size == 0 {
		h.Free(block, alignment)
		return nil, nil
	}
	if err := checkSize(size); err != nil {
		return nil, err
	}
	align, err := normalizeAlignment(alignment)
	if err != nil {
		return nil, err
	}

	if size <= cap(block) && isAligned(block, align) {
		grown := block[:size]
		if size > len(block) {
			clear(grown[len(block):])
		}
		return grown, nil
	}

	next, err := h.Allocate(size, align)
	if err != nil {
		return nil, err
	}
	Copy(next, block)
	return next, nil
}

// Free implements Allocator.
func (h *Heap) Free([]byte, int) {}

// AllocationSize implements Allocator.
func (h *Heap) AllocationSize(block []byte) int {
	return cap(block)
}

func isAligned(block []byte, align int) bool {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(block))) //nolint:gosec // unsafe is required for memory alignment
	return addr&uintptr(align-1) == 0
}
