// Package queue implements a FIFO queue on a circular buffer.
//
// One slot of the buffer always stays unused so that a full queue can be told
// apart from an empty one by comparing head and tail alone. Cap therefore
// reports one less than the number of allocated slots. Queues are not safe
// for concurrent use.
package queue

import (
	"cmp"
	"iter"
	"math"

	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/memory"
)

const defaultCapacity = 8

// Queue is a FIFO queue of T.
type Queue[T any] struct {
	alloc  memory.Allocator
	logger *corekit.Logger
	buf    memory.Buffer[T]
	head   int // next slot to dequeue
	tail   int // next slot to enqueue
	size   int
}

// New returns an empty queue. It does not allocate.
func New[T any](opts ...Option) *Queue[T] {
	o := applyOptions(opts)
	return &Queue[T]{
		alloc:  o.alloc,
		logger: o.logger.WithContainer("queue"),
	}
}

// NewWithCapacity returns an empty queue that can hold n elements before it
// grows.
func NewWithCapacity[T any](n int, opts ...Option) (*Queue[T], error) {
	q := New[T](opts...)
	if err := q.Reserve(n); err != nil {
		return nil, err
	}
	return q, nil
}

// From returns a queue holding values, values[0] at the front.
func From[T any](values []T, opts ...Option) (*Queue[T], error) {
	q, err := NewWithCapacity[T](len(values), opts...)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		q.push(v)
	}
	return q, nil
}

// Enqueue adds v at the back.
func (q *Queue[T]) Enqueue(v T) error {
	if err := q.ensureRoom(); err != nil {
		return err
	}
	q.push(v)
	return nil
}

// EmplaceBack adds a zero value at the back and returns a pointer to it. The
// pointer is valid until the next change of capacity.
func (q *Queue[T]) EmplaceBack() (*T, error) {
	if err := q.ensureRoom(); err != nil {
		return nil, err
	}
	slot := &q.buf.Slice()[q.tail]
	q.advanceTail()
	return slot, nil
}

// Dequeue removes and returns the front element.
func (q *Queue[T]) Dequeue() T {
	corekit.CheckNotEmpty("queue.Dequeue", q.size)
	return q.pop()
}

// TryDequeue removes and returns the front element if there is one.
func (q *Queue[T]) TryDequeue() (T, bool) {
	if q.size == 0 {
		var zero T
		return zero, false
	}
	return q.pop(), true
}

// Front returns the element Dequeue would return.
func (q *Queue[T]) Front() T {
	corekit.CheckNotEmpty("queue.Front", q.size)
	return q.buf.Slice()[q.head]
}

// Back returns the most recently enqueued element.
func (q *Queue[T]) Back() T {
	corekit.CheckNotEmpty("queue.Back", q.size)
	return q.buf.Slice()[q.prev(q.tail)]
}

// At returns the i-th element counted from the front.
func (q *Queue[T]) At(i int) T {
	corekit.CheckIndex("queue.At", i, q.size)
	return q.buf.Slice()[q.wrap(q.head+i)]
}

// Reserve makes room for at least n elements. When the storage is replaced
// the elements are moved to the start of the new buffer in queue order.
func (q *Queue[T]) Reserve(n int) error {
	if n <= q.Cap() {
		return nil
	}
	if n == math.MaxInt {
		// the gap slot does not fit
		err := corekit.OutOfMemory("queue.Reserve", n, nil)
		q.logger.LogAllocFailure("queue.Reserve", n, err)
		return err
	}

	var next memory.Buffer[T]
	if err := next.Grow(q.alloc, n+1, 0); err != nil {
		q.logger.LogAllocFailure("queue.Reserve", n+1, err)
		return err
	}

	dst := next.Slice()
	if q.size > 0 {
		src := q.buf.Slice()
		if q.head < q.tail {
			memory.Relocate(dst, src[q.head:q.tail])
		} else {
			k := memory.Relocate(dst, src[q.head:])
			memory.Relocate(dst[k:], src[:q.tail])
		}
	}

	old := q.Cap()
	q.buf.Free(q.alloc)
	q.buf = next
	q.head = 0
	q.tail = q.size
	q.logger.LogGrow(old, n, q.size)
	return nil
}

// Clear destroys every element and keeps the capacity.
func (q *Queue[T]) Clear() {
	for q.size > 0 {
		q.pop()
	}
	q.head, q.tail = 0, 0
}

// Swap exchanges the contents of q and other.
func (q *Queue[T]) Swap(other *Queue[T]) {
	*q, *other = *other, *q
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int { return q.size }

// Cap returns the number of elements the queue can hold without growing.
func (q *Queue[T]) Cap() int { return max(q.buf.Cap()-1, 0) }

// IsEmpty reports whether the queue has no elements.
func (q *Queue[T]) IsEmpty() bool { return q.size == 0 }

// IsFull reports whether the next Enqueue has to grow the queue.
func (q *Queue[T]) IsFull() bool { return q.size == q.Cap() }

// SizeInBytes returns the bytes occupied by live elements.
func (q *Queue[T]) SizeInBytes() int { return q.size * memory.SizeOf[T]() }

// CapacityInBytes returns the bytes of the allocated storage, gap slot included.
func (q *Queue[T]) CapacityInBytes() int { return q.buf.Bytes() }

// All yields the elements from front to back.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		s := q.buf.Slice()
		for i := range q.size {
			if !yield(s[q.wrap(q.head+i)]) {
				return
			}
		}
	}
}

// Clone returns an independent deep copy with the same capacity.
func (q *Queue[T]) Clone() (*Queue[T], error) {
	out := &Queue[T]{alloc: q.alloc, logger: q.logger}
	if err := out.Reserve(q.Cap()); err != nil {
		return nil, err
	}
	for v := range q.All() {
		out.push(v)
	}
	return out, nil
}

// Move transfers the storage to a new queue and leaves q empty with no
// capacity.
func (q *Queue[T]) Move() *Queue[T] {
	out := &Queue[T]{
		alloc:  q.alloc,
		logger: q.logger,
		buf:    q.buf.Take(),
		head:   q.head,
		tail:   q.tail,
		size:   q.size,
	}
	q.head, q.tail, q.size = 0, 0, 0
	return out
}

// Release destroys every element and frees the storage.
func (q *Queue[T]) Release() {
	q.Clear()
	q.buf.Free(q.alloc)
}

func (q *Queue[T]) ensureRoom() error {
	if !q.IsFull() {
		return nil
	}
	if q.Cap() == 0 {
		return q.Reserve(defaultCapacity)
	}
	return q.Reserve(q.Cap() * 2)
}

func (q *Queue[T]) push(v T) {
	q.buf.Slice()[q.tail] = v
	q.advanceTail()
}

func (q *Queue[T]) advanceTail() {
	q.tail = q.wrap(q.tail + 1)
	q.size++
}

func (q *Queue[T]) pop() T {
	s := q.buf.Slice()
	v := s[q.head]

	var zero T
	s[q.head] = zero

	q.head = q.wrap(q.head + 1)
	q.size--
	return v
}

func (q *Queue[T]) wrap(i int) int {
	if n := q.buf.Cap(); i >= n {
		return i - n
	}
	return i
}

func (q *Queue[T]) prev(i int) int {
	if i == 0 {
		return q.buf.Cap() - 1
	}
	return i - 1
}

// Equal reports whether a and b hold equal elements in the same order.
func Equal[T comparable](a, b *Queue[T]) bool {
	if a.size != b.size {
		return false
	}
	for i := range a.size {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}

// Compare compares a and b lexicographically from front to back.
func Compare[T cmp.Ordered](a, b *Queue[T]) int {
	for i := range min(a.size, b.size) {
		if c := cmp.Compare(a.At(i), b.At(i)); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.size, b.size)
}
