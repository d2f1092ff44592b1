// Package fixed implements a fixed-capacity sequence with inline storage.
//
// The capacity is part of the type: the second type parameter must be the Go
// array type [N]T, for example
//
//	var slots fixed.Array[float32, [16]float32]
//
// An Array never allocates. Copying it by assignment copies every element,
// so copies are independent.
package fixed

import (
	"cmp"
	"iter"
	"reflect"
	"slices"
	"sync"
	"unsafe"

	"github.com/hupe1980/corekit"
)

// Array is a sequence of exactly N elements of T stored inline, where A is [N]T.
// The zero value holds N zero values and is ready to use.
type Array[T any, A any] struct {
	data A
}

var lengths sync.Map // reflect.Type of A -> int

// length returns N, validating once per instantiation that A is [N]T.
func length[T any, A any]() int {
	typ := reflect.TypeFor[A]()
	if n, ok := lengths.Load(typ); ok {
		return n.(int)
	}
	elem := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Array || typ.Elem() != elem {
		corekit.Violation("fixed.Array", corekit.ErrInvalidLayout, "storage type %s is not [N]%s", typ, elem)
	}
	n := typ.Len()
	lengths.Store(typ, n)
	return n
}

// New returns an array whose leading elements are values. Values beyond the
// capacity are ignored; missing ones are zero.
func New[T any, A any](values ...T) Array[T, A] {
	var a Array[T, A]
	copy(a.Data(), values)
	return a
}

// Filled returns an array with every element set to v.
func Filled[T any, A any](v T) Array[T, A] {
	var a Array[T, A]
	a.Fill(v)
	return a
}

// Len returns N.
func (a *Array[T, A]) Len() int {
	return length[T, A]()
}

// Data returns a slice aliasing the elements.
func (a *Array[T, A]) Data() []T {
	n := length[T, A]()
	return unsafe.Slice((*T)(unsafe.Pointer(&a.data)), n) //nolint:gosec // A is [N]T
}

// Values returns a copy of the elements as a Go array.
func (a *Array[T, A]) Values() A {
	length[T, A]()
	return a.data
}

// At returns the element at index i.
func (a *Array[T, A]) At(i int) T {
	d := a.Data()
	corekit.CheckIndex("fixed.At", i, len(d))
	return d[i]
}

// Ref returns a pointer to the element at index i.
func (a *Array[T, A]) Ref(i int) *T {
	d := a.Data()
	corekit.CheckIndex("fixed.Ref", i, len(d))
	return &d[i]
}

// Set replaces the element at index i.
func (a *Array[T, A]) Set(i int, v T) {
	d := a.Data()
	corekit.CheckIndex("fixed.Set", i, len(d))
	d[i] = v
}

// First returns the element at index 0.
func (a *Array[T, A]) First() T {
	d := a.Data()
	corekit.CheckNotEmpty("fixed.First", len(d))
	return d[0]
}

// Last returns the element at index N-1.
func (a *Array[T, A]) Last() T {
	d := a.Data()
	corekit.CheckNotEmpty("fixed.Last", len(d))
	return d[len(d)-1]
}

// Fill overwrites every element with v.
func (a *Array[T, A]) Fill(v T) {
	d := a.Data()
	for i := range d {
		d[i] = v
	}
}

// IndexFunc returns the index of the first element satisfying pred, or -1.
func (a *Array[T, A]) IndexFunc(pred func(T) bool) int {
	return slices.IndexFunc(a.Data(), pred)
}

// ForEach calls fn with the index and a pointer to every element in order.
func (a *Array[T, A]) ForEach(fn func(i int, v *T)) {
	d := a.Data()
	for i := range d {
		fn(i, &d[i])
	}
}

// AllOf reports whether every element satisfies pred. It is true for N == 0.
func (a *Array[T, A]) AllOf(pred func(T) bool) bool {
	for _, v := range a.Data() {
		if !pred(v) {
			return false
		}
	}
	return true
}

// AnyOf reports whether some element satisfies pred.
func (a *Array[T, A]) AnyOf(pred func(T) bool) bool {
	return slices.ContainsFunc(a.Data(), pred)
}

// NoneOf reports whether no element satisfies pred.
func (a *Array[T, A]) NoneOf(pred func(T) bool) bool {
	return !a.AnyOf(pred)
}

// CountIf returns the number of elements satisfying pred.
func (a *Array[T, A]) CountIf(pred func(T) bool) int {
	n := 0
	for _, v := range a.Data() {
		if pred(v) {
			n++
		}
	}
	return n
}

// All yields index/element pairs in order.
func (a *Array[T, A]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range a.Data() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// SizeInBytes returns the size of the storage.
func (a *Array[T, A]) SizeInBytes() int {
	length[T, A]()
	return int(unsafe.Sizeof(a.data))
}

// Clone returns a copy of a.
func (a *Array[T, A]) Clone() Array[T, A] {
	length[T, A]()
	return *a
}

// Find returns the index of the first element equal to v, or -1.
func Find[T comparable, A any](a *Array[T, A], v T) int {
	return slices.Index(a.Data(), v)
}

// Contains reports whether v is an element of a.
func Contains[T comparable, A any](a *Array[T, A], v T) bool {
	return Find(a, v) >= 0
}

// Equal reports whether a and b hold equal elements.
func Equal[T comparable, A any](a, b *Array[T, A]) bool {
	return slices.Equal(a.Data(), b.Data())
}

// Compare compares a and b lexicographically.
func Compare[T cmp.Ordered, A any](a, b *Array[T, A]) int {
	return slices.Compare(a.Data(), b.Data())
}
