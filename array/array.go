// Package array implements a growable sequence whose storage comes from a
// memory.Allocator.
//
// Array is the engine counterpart of a Go slice with explicit capacity
// control: it grows by doubling (starting at 4), can be reserved and shrunk,
// and reports allocation failure as an error instead of crashing. It is not
// safe for concurrent use.
package array

import (
	"cmp"
	"iter"
	"slices"

	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/memory"
)

const minGrowCapacity = 4

// Array is a growable sequence of T.
type Array[T any] struct {
	alloc  memory.Allocator
	logger *corekit.Logger
	buf    memory.Buffer[T]
	length int
}

// New returns an empty array. It does not allocate.
func New[T any](opts ...Option) *Array[T] {
	o := applyOptions(opts)
	return &Array[T]{
		alloc:  o.alloc,
		logger: o.logger.WithContainer("array"),
	}
}

// NewWithSize returns an array of n zero values.
func NewWithSize[T any](n int, opts ...Option) (*Array[T], error) {
	a := New[T](opts...)
	if err := a.Resize(n); err != nil {
		return nil, err
	}
	return a, nil
}

// NewFilled returns an array of n copies of v.
func NewFilled[T any](n int, v T, opts ...Option) (*Array[T], error) {
	a, err := NewWithSize[T](n, opts...)
	if err != nil {
		return nil, err
	}
	for i := range a.Data() {
		a.buf.Slice()[i] = v
	}
	return a, nil
}

// From returns an array holding a copy of values.
func From[T any](values []T, opts ...Option) (*Array[T], error) {
	a := New[T](opts...)
	if err := a.Reserve(len(values)); err != nil {
		return nil, err
	}
	copy(a.buf.Slice(), values)
	a.length = len(values)
	return a, nil
}

// PushBack appends v.
func (a *Array[T]) PushBack(v T) error {
	if err := a.ensureRoom(); err != nil {
		return err
	}
	a.buf.Slice()[a.length] = v
	a.length++
	return nil
}

// EmplaceBack appends a zero value and returns a pointer to it. The pointer is
// valid until the next change of capacity.
func (a *Array[T]) EmplaceBack() (*T, error) {
	if err := a.ensureRoom(); err != nil {
		return nil, err
	}
	slot := &a.buf.Slice()[a.length]
	a.length++
	return slot, nil
}

// PopBack removes and returns the last element.
func (a *Array[T]) PopBack() T {
	corekit.CheckNotEmpty("array.PopBack", a.length)

	a.length--
	s := a.buf.Slice()
	v := s[a.length]

	var zero T
	s[a.length] = zero
	return v
}

// Reserve makes room for at least n elements without changing the length.
func (a *Array[T]) Reserve(n int) error {
	if n <= a.buf.Cap() {
		return nil
	}
	return a.realloc(n)
}

// Resize changes the length to n. New elements are zero values; removed
// elements are destroyed. Capacity only changes when growing beyond it.
func (a *Array[T]) Resize(n int) error {
	if n < 0 {
		corekit.Violation("array.Resize", corekit.ErrOutOfRange, "negative length %d", n)
	}
	if err := a.Reserve(n); err != nil {
		return err
	}

	s := a.buf.Slice()
	if n > a.length {
		clear(s[a.length:n])
	} else {
		clear(s[n:a.length])
	}
	a.length = n
	return nil
}

// ShrinkToFit reduces the capacity to the length. An empty array releases
// its storage entirely.
func (a *Array[T]) ShrinkToFit() error {
	if a.length == a.buf.Cap() {
		return nil
	}
	return a.realloc(a.length)
}

// Clear destroys every element and keeps the capacity.
func (a *Array[T]) Clear() {
	clear(a.buf.Slice()[:a.length])
	a.length = 0
}

// At returns the element at index i.
func (a *Array[T]) At(i int) T {
	corekit.CheckIndex("array.At", i, a.length)
	return a.buf.Slice()[i]
}

// Ref returns a pointer to the element at index i. The pointer is valid until
// the next change of capacity.
func (a *Array[T]) Ref(i int) *T {
	corekit.CheckIndex("array.Ref", i, a.length)
	return &a.buf.Slice()[i]
}

// Set replaces the element at index i.
func (a *Array[T]) Set(i int, v T) {
	corekit.CheckIndex("array.Set", i, a.length)
	a.buf.Slice()[i] = v
}

// First returns the first element.
func (a *Array[T]) First() T {
	corekit.CheckNotEmpty("array.First", a.length)
	return a.buf.Slice()[0]
}

// Last returns the last element.
func (a *Array[T]) Last() T {
	corekit.CheckNotEmpty("array.Last", a.length)
	return a.buf.Slice()[a.length-1]
}

// Data returns the live elements. The slice aliases the array's storage and
// is valid until the next change of capacity.
func (a *Array[T]) Data() []T {
	return a.buf.Slice()[:a.length:a.length]
}

// All yields index/element pairs in order.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(i, a.buf.Slice()[i]) {
				return
			}
		}
	}
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.length }

// Cap returns the number of elements the array can hold without reallocating.
func (a *Array[T]) Cap() int { return a.buf.Cap() }

// IsEmpty reports whether the array has no elements.
func (a *Array[T]) IsEmpty() bool { return a.length == 0 }

// SizeInBytes returns the bytes occupied by live elements.
func (a *Array[T]) SizeInBytes() int { return a.length * memory.SizeOf[T]() }

// CapacityInBytes returns the bytes of the allocated storage.
func (a *Array[T]) CapacityInBytes() int { return a.buf.Bytes() }

// Clone returns an independent deep copy with the same capacity and allocator.
func (a *Array[T]) Clone() (*Array[T], error) {
	out := &Array[T]{alloc: a.alloc, logger: a.logger}
	if err := out.Reserve(a.buf.Cap()); err != nil {
		return nil, err
	}
	copy(out.buf.Slice(), a.Data())
	out.length = a.length
	return out, nil
}

// Move transfers the storage to a new array. a is left with length and
// capacity 0 and stays usable.
func (a *Array[T]) Move() *Array[T] {
	out := &Array[T]{
		alloc:  a.alloc,
		logger: a.logger,
		buf:    a.buf.Take(),
		length: a.length,
	}
	a.length = 0
	return out
}

// Release destroys every element and frees the storage.
func (a *Array[T]) Release() {
	a.Clear()
	a.buf.Free(a.alloc)
}

// Swap exchanges the contents of a and other.
func (a *Array[T]) Swap(other *Array[T]) {
	*a, *other = *other, *a
}

func (a *Array[T]) ensureRoom() error {
	if a.length < a.buf.Cap() {
		return nil
	}
	return a.realloc(max(minGrowCapacity, a.buf.Cap()*2))
}

func (a *Array[T]) realloc(n int) error {
	old := a.buf.Cap()
	if err := a.buf.Grow(a.alloc, n, a.length); err != nil {
		a.logger.LogAllocFailure("array.realloc", n, err)
		return err
	}
	a.logger.LogGrow(old, n, a.length)
	return nil
}

// Equal reports whether a and b hold equal elements in the same order.
func Equal[T comparable](a, b *Array[T]) bool {
	return slices.Equal(a.Data(), b.Data())
}

// Compare compares a and b lexicographically.
func Compare[T cmp.Ordered](a, b *Array[T]) int {
	return slices.Compare(a.Data(), b.Data())
}
