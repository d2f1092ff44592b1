package hashmap

import (
	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/pool"
)

// Iterator is a position in a Map. The zero Iterator and End are not
// dereferenceable.
//
//	for it := m.Begin(); it.Valid(); it = it.Next() {
//		fmt.Println(it.Key(), it.Value())
//	}
type Iterator[K comparable, V any] struct {
	m      *Map[K, V]
	node   pool.Handle
	bucket int
	id     uint64
	gen    uint64
}

// Begin returns an iterator at the first entry, or End for an empty map.
func (m *Map[K, V]) Begin() Iterator[K, V] {
	return m.firstFrom(0)
}

// End returns the past-the-end iterator.
func (m *Map[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{m: m, id: m.id, gen: m.gen}
}

func (m *Map[K, V]) iter(n pool.Handle, b int) Iterator[K, V] {
	return Iterator[K, V]{m: m, node: n, bucket: b, id: m.id, gen: m.gen}
}

func (m *Map[K, V]) firstFrom(b int) Iterator[K, V] {
	heads := m.buckets.Slice()
	for ; b < len(heads); b++ {
		if !heads[b].IsNil() {
			return m.iter(heads[b], b)
		}
	}
	return m.End()
}

// Valid reports whether the iterator points at an entry. It does not detect
// invalidation; dereferencing an invalidated iterator panics.
func (it Iterator[K, V]) Valid() bool {
	return it.m != nil && !it.node.IsNil()
}

// Key returns the key of the entry.
func (it Iterator[K, V]) Key() K {
	it.check("hashmap.Iterator.Key")
	return it.m.nodes.Get(it.node).key
}

// Value returns the value of the entry.
func (it Iterator[K, V]) Value() V {
	it.check("hashmap.Iterator.Value")
	return it.m.nodes.Get(it.node).value
}

// ValueRef returns a pointer to the value of the entry. The pointer stays
// valid until the entry is removed.
func (it Iterator[K, V]) ValueRef() *V {
	it.check("hashmap.Iterator.ValueRef")
	return &it.m.nodes.Get(it.node).value
}

// Next returns an iterator at the following entry: the rest of the chain
// first, then the following buckets.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	it.check("hashmap.Iterator.Next")
	return it.advance()
}

func (it Iterator[K, V]) advance() Iterator[K, V] {
	m := it.m
	if next := m.nodes.Get(it.node).next; !next.IsNil() {
		return m.iter(next, it.bucket)
	}
	return m.firstFrom(it.bucket + 1)
}

func (it Iterator[K, V]) check(op string) {
	switch {
	case it.m == nil:
		corekit.Violation(op, corekit.ErrInvalidIterator, "zero iterator")
	case it.node.IsNil():
		corekit.Violation(op, corekit.ErrInvalidIterator, "end iterator")
	case it.id != it.m.id || it.gen != it.m.gen:
		corekit.Violation(op, corekit.ErrInvalidIterator, "map was rehashed, cleared or moved")
	case !it.m.nodes.Contains(it.node):
		corekit.Violation(op, corekit.ErrInvalidIterator, "entry was removed")
	}
}
