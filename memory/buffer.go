package memory

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/corekit"
)

// Buffer is the element storage shared by the containers.
//
// Trivial element types are placed directly in a block from the allocator and
// viewed as []T. Element types holding pointers are kept in a Go slice so the
// collector can see them; their size is charged to the allocator when it
// implements Accountant. The zero Buffer is empty and ready to use.
type Buffer[T any] struct {
	data    []T    // len(data) is the capacity
	raw     []byte // backing block, trivial types only
	charged int    // bytes charged to an Accountant
}

// Slice returns the storage. Its length is the capacity of the buffer.
func (b *Buffer[T]) Slice() []T {
	return b.data
}

// Cap returns the number of elements the buffer can hold.
func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// Bytes returns the capacity in bytes.
func (b *Buffer[T]) Bytes() int {
	return len(b.data) * SizeOf[T]()
}

// Grow resizes the buffer to exactly n elements, preserving the first live
// elements. n may be smaller than the current capacity but not than live.
// On failure the buffer is left untouched and the error wraps
// corekit.ErrOutOfMemory.
func (b *Buffer[T]) Grow(a Allocator, n, live int) error {
	if a == nil {
		a = Default
	}
	if n < live || live > len(b.data) {
		corekit.Violation("memory.Buffer.Grow", corekit.ErrOutOfRange, "capacity %d, live %d", n, live)
	}
	if n == len(b.data) {
		return nil
	}
	if n == 0 {
		b.Free(a)
		return nil
	}

	size, err := BytesFor[T](n)
	if err != nil {
		return corekit.OutOfMemory("memory.Buffer.Grow", maxInt, err)
	}

	if size > 0 && IsTrivial[T]() {
		return b.growRaw(a, n, size)
	}
	return b.growManaged(a, n, live, size)
}

func (b *Buffer[T]) growRaw(a Allocator, n, size int) error {
	raw, err := a.Reallocate(b.raw, size, AlignOf[T]())
	if err != nil {
		return corekit.OutOfMemory("memory.Buffer.Grow", size, err)
	}
	b.raw = raw
	b.data = unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(raw))), n) //nolint:gosec // T is pointer-free
	return nil
}

func (b *Buffer[T]) growManaged(a Allocator, n, live, size int) (err error) {
	acc, accounted := a.(Accountant)
	if accounted && size > 0 {
		if err := acc.Charge(size); err != nil {
			return corekit.OutOfMemory("memory.Buffer.Grow", size, err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			if accounted && size > 0 {
				acc.Refund(size)
			}
			err = corekit.OutOfMemory("memory.Buffer.Grow", size, fmt.Errorf("%v", r))
		}
	}()

	data := make([]T, n)
	Relocate(data, b.data[:live])

	if accounted && b.charged > 0 {
		acc.Refund(b.charged)
	}
	b.data = data
	b.charged = 0
	if accounted {
		b.charged = size
	}
	return nil
}

// Free returns the storage to a and leaves the buffer empty.
func (b *Buffer[T]) Free(a Allocator) {
	if a == nil {
		a = Default
	}
	if b.raw != nil {
		a.Free(b.raw, AlignOf[T]())
	} else {
		clear(b.data)
		if b.charged > 0 {
			if acc, ok := a.(Accountant); ok {
				acc.Refund(b.charged)
			}
		}
	}
	*b = Buffer[T]{}
}

// Take returns the buffer's storage and leaves b empty.
func (b *Buffer[T]) Take() Buffer[T] {
	out := *b
	*b = Buffer[T]{}
	return out
}

// Relocate moves min(len(dst), len(src)) elements from src to dst and returns
// the count. Trivial elements are copied as bytes and the source is left as
// is; other elements are zeroed in src after the move so the source no longer
// keeps anything alive.
func Relocate[T any](dst, src []T) int {
	n := min(len(dst), len(src))
	if n == 0 {
		return 0
	}
	if size := SizeOf[T](); size > 0 && IsTrivial[T]() {
		to := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(dst))), n*size)   //nolint:gosec // T is pointer-free
		from := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(src))), n*size) //nolint:gosec // T is pointer-free
		Copy(to, from)
		return n
	}
	copy(dst[:n], src[:n])
	clear(src[:n])
	return n
}
