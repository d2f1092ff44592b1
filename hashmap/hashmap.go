package hashmap

import (
	"iter"
	"math"
	"sync/atomic"

	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/memory"
	"github.com/hupe1980/corekit/pool"
)

type node[K comparable, V any] struct {
	hash  uint64
	next  pool.Handle
	key   K
	value V
}

var mapIDs atomic.Uint64

// Map is a hash map from K to V with separate chaining.
type Map[K comparable, V any] struct {
	alloc   memory.Allocator
	logger  *corekit.Logger
	hash    HashFunc[K]
	equal   EqualFunc[K]
	initial int

	buckets memory.Buffer[pool.Handle]
	nodes   *pool.Pool[node[K, V]]
	count   int

	id  uint64 // identity checked by iterators
	gen uint64 // bumped whenever iterators are invalidated
}

// New creates a map that hashes keys with hash/maphash.
func New[K comparable, V any](opts ...Option) (*Map[K, V], error) {
	return NewFunc[K, V](defaultHash[K](), defaultEqual[K], opts...)
}

// NewString creates a string-keyed map that hashes keys with xxHash64.
func NewString[V any](opts ...Option) (*Map[string, V], error) {
	return NewFunc[string, V](HashString, defaultEqual[string], opts...)
}

// NewFunc creates a map with custom hash and equality functions.
func NewFunc[K comparable, V any](hash HashFunc[K], equal EqualFunc[K], opts ...Option) (*Map[K, V], error) {
	o := applyOptions(opts)
	if equal == nil {
		equal = defaultEqual[K]
	}
	if hash == nil {
		hash = defaultHash[K]()
	}

	m := &Map[K, V]{
		alloc:   o.alloc,
		logger:  o.logger.WithContainer("hashmap"),
		hash:    hash,
		equal:   equal,
		initial: o.buckets,
		nodes: pool.New[node[K, V]](
			pool.WithAllocator(o.alloc),
			pool.WithPolicy(o.nodePolicy),
		),
		id: mapIDs.Add(1),
	}
	if err := m.buckets.Grow(m.alloc, o.buckets, 0); err != nil {
		return nil, err
	}
	return m, nil
}

// Insert adds k with value v if k is absent. An existing entry keeps its
// value. The iterator points at the entry for k either way.
func (m *Map[K, V]) Insert(k K, v V) (Iterator[K, V], bool, error) {
	it, inserted, err := m.insert(k)
	if err != nil || !inserted {
		return it, inserted, err
	}
	m.nodes.Get(it.node).value = v
	return it, true, nil
}

// Emplace adds k if it is absent and calls ctor on the zero value stored for
// it. ctor is not called for an existing key.
func (m *Map[K, V]) Emplace(k K, ctor func(*V)) (Iterator[K, V], bool, error) {
	it, inserted, err := m.insert(k)
	if err != nil || !inserted {
		return it, inserted, err
	}
	if ctor != nil {
		ctor(&m.nodes.Get(it.node).value)
	}
	return it, true, nil
}

// FindOrInsertDefault returns a pointer to the value of k, inserting a zero
// value first when k is absent. The pointer stays valid until k is removed.
func (m *Map[K, V]) FindOrInsertDefault(k K) (*V, bool, error) {
	it, inserted, err := m.insert(k)
	if err != nil {
		return nil, false, err
	}
	return &m.nodes.Get(it.node).value, inserted, nil
}

func (m *Map[K, V]) insert(k K) (Iterator[K, V], bool, error) {
	h := m.hash(k)
	if n, b := m.lookup(k, h); !n.IsNil() {
		return m.iter(n, b), false, nil
	}

	if err := m.reserveFor(m.count + 1); err != nil {
		return m.End(), false, err
	}

	n, err := m.nodes.AllocateZero()
	if err != nil {
		m.logger.LogAllocFailure("hashmap.insert", memory.SizeOf[node[K, V]](), err)
		return m.End(), false, err
	}

	b := m.bucketOf(h)
	heads := m.buckets.Slice()
	nd := m.nodes.Get(n)
	nd.hash = h
	nd.key = k
	nd.next = heads[b]
	heads[b] = n
	m.count++

	return m.iter(n, b), true, nil
}

// Find returns an iterator at the entry for k, or End.
func (m *Map[K, V]) Find(k K) Iterator[K, V] {
	n, b := m.lookup(k, m.hash(k))
	if n.IsNil() {
		return m.End()
	}
	return m.iter(n, b)
}

// Get returns the value stored for k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	n, _ := m.lookup(k, m.hash(k))
	if n.IsNil() {
		var zero V
		return zero, false
	}
	return m.nodes.Get(n).value, true
}

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool {
	n, _ := m.lookup(k, m.hash(k))
	return !n.IsNil()
}

// Remove deletes k and returns the number of removed entries (0 or 1).
func (m *Map[K, V]) Remove(k K) int {
	if m.buckets.Cap() == 0 {
		return 0
	}
	h := m.hash(k)
	b := m.bucketOf(h)
	heads := m.buckets.Slice()

	prev := pool.Nil
	for n := heads[b]; !n.IsNil(); {
		nd := m.nodes.Get(n)
		if nd.hash == h && m.equal(nd.key, k) {
			m.unlink(b, prev, n)
			return 1
		}
		prev, n = n, nd.next
	}
	return 0
}

// RemoveAt deletes the entry at it and returns an iterator at the entry that
// followed it: the rest of its chain first, then the following buckets.
func (m *Map[K, V]) RemoveAt(it Iterator[K, V]) Iterator[K, V] {
	if it.m != m {
		corekit.Violation("hashmap.RemoveAt", corekit.ErrInvalidIterator, "iterator belongs to another map")
	}
	it.check("hashmap.RemoveAt")

	next := it.advance()

	prev := pool.Nil
	for n := m.buckets.Slice()[it.bucket]; n != it.node; n = m.nodes.Get(n).next {
		prev = n
	}
	m.unlink(it.bucket, prev, it.node)
	return next
}

func (m *Map[K, V]) unlink(b int, prev, n pool.Handle) {
	next := m.nodes.Get(n).next
	if prev.IsNil() {
		m.buckets.Slice()[b] = next
	} else {
		m.nodes.Get(prev).next = next
	}
	m.nodes.Free(n)
	m.count--
}

// Clear removes every entry and keeps the bucket array.
func (m *Map[K, V]) Clear() {
	heads := m.buckets.Slice()
	for b, n := range heads {
		for !n.IsNil() {
			next := m.nodes.Get(n).next
			m.nodes.Free(n)
			n = next
		}
		heads[b] = pool.Nil
	}
	m.count = 0
	m.gen++
}

// Reserve rehashes if needed so that n entries fit without exceeding the
// maximum load factor.
func (m *Map[K, V]) Reserve(n int) error {
	target := float64(n) / MaxLoadFactor
	if target >= float64(math.MaxInt) {
		err := corekit.OutOfMemory("hashmap.Reserve", math.MaxInt, nil)
		m.logger.LogAllocFailure("hashmap.Reserve", math.MaxInt, err)
		return err
	}
	needed := int(target) + 1
	if needed <= m.buckets.Cap() {
		return nil
	}
	return m.rehash(needed)
}

// reserveFor doubles the bucket count until n entries respect the load factor.
func (m *Map[K, V]) reserveFor(n int) error {
	buckets := m.buckets.Cap()
	if buckets > 0 && float64(n)/float64(buckets) <= MaxLoadFactor {
		return nil
	}

	target := max(buckets, 1)
	if buckets == 0 {
		target = m.initial
	}
	for float64(n)/float64(target) > MaxLoadFactor {
		target *= 2
	}
	return m.rehash(target)
}

// rehash moves every node into a new bucket array of n buckets. Nodes are
// relinked, never copied.
func (m *Map[K, V]) rehash(n int) error {
	var next memory.Buffer[pool.Handle]
	if err := next.Grow(m.alloc, n, 0); err != nil {
		m.logger.LogAllocFailure("hashmap.rehash", n*memory.SizeOf[pool.Handle](), err)
		return err
	}

	heads := next.Slice()
	for _, h := range m.buckets.Slice() {
		for !h.IsNil() {
			nd := m.nodes.Get(h)
			following := nd.next
			b := int(nd.hash % uint64(n))
			nd.next = heads[b]
			heads[b] = h
			h = following
		}
	}

	old := m.buckets.Cap()
	m.buckets.Free(m.alloc)
	m.buckets = next
	m.gen++
	m.logger.LogRehash(old, n, m.count)
	return nil
}

// Swap exchanges the contents of m and other. Iterators of both maps are
// invalidated.
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	*m, *other = *other, *m
	m.gen++
	other.gen++
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.count }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.count == 0 }

// BucketCount returns the number of buckets.
func (m *Map[K, V]) BucketCount() int { return m.buckets.Cap() }

// LoadFactor returns Len divided by BucketCount.
func (m *Map[K, V]) LoadFactor() float64 {
	if m.buckets.Cap() == 0 {
		return 0
	}
	return float64(m.count) / float64(m.buckets.Cap())
}

// MaxLoadFactor returns the load factor above which the map rehashes.
func (m *Map[K, V]) MaxLoadFactor() float64 { return MaxLoadFactor }

// All yields every key/value pair in bucket order, then chain order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, n := range m.buckets.Slice() {
			for !n.IsNil() {
				nd := m.nodes.Get(n)
				if !yield(nd.key, nd.value) {
					return
				}
				n = nd.next
			}
		}
	}
}

// Keys yields every key in iteration order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Clone returns an independent deep copy with the same bucket count, hash
// function and chain order.
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	out := &Map[K, V]{
		alloc:   m.alloc,
		logger:  m.logger,
		hash:    m.hash,
		equal:   m.equal,
		initial: m.initial,
		nodes: pool.New[node[K, V]](
			pool.WithAllocator(m.alloc),
			pool.WithPolicy(m.nodes.Policy()),
		),
		id: mapIDs.Add(1),
	}
	if err := out.buckets.Grow(out.alloc, m.buckets.Cap(), 0); err != nil {
		return nil, err
	}
	if err := out.nodes.Resize(m.count); err != nil {
		out.Release()
		return nil, err
	}

	heads := out.buckets.Slice()
	for b, n := range m.buckets.Slice() {
		tail := pool.Nil
		for !n.IsNil() {
			src := m.nodes.Get(n)
			c, err := out.nodes.Allocate(node[K, V]{hash: src.hash, key: src.key, value: src.value})
			if err != nil {
				out.Release()
				return nil, err
			}
			if tail.IsNil() {
				heads[b] = c
			} else {
				out.nodes.Get(tail).next = c
			}
			tail = c
			out.count++
			n = src.next
		}
	}
	return out, nil
}

// Move transfers every entry to a new map. m is left empty without a bucket
// array and stays usable.
func (m *Map[K, V]) Move() *Map[K, V] {
	out := &Map[K, V]{
		alloc:   m.alloc,
		logger:  m.logger,
		hash:    m.hash,
		equal:   m.equal,
		initial: m.initial,
		buckets: m.buckets.Take(),
		nodes:   m.nodes,
		count:   m.count,
		id:      mapIDs.Add(1),
	}
	m.nodes = pool.New[node[K, V]](
		pool.WithAllocator(m.alloc),
		pool.WithPolicy(out.nodes.Policy()),
	)
	m.count = 0
	m.gen++
	return out
}

// Release destroys every entry and frees all storage. The map stays usable.
func (m *Map[K, V]) Release() {
	m.nodes.Release()
	m.buckets.Free(m.alloc)
	m.count = 0
	m.gen++
}

func (m *Map[K, V]) bucketOf(h uint64) int {
	return int(h % uint64(m.buckets.Cap()))
}

func (m *Map[K, V]) lookup(k K, h uint64) (pool.Handle, int) {
	if m.buckets.Cap() == 0 {
		return pool.Nil, 0
	}
	b := m.bucketOf(h)
	for n := m.buckets.Slice()[b]; !n.IsNil(); {
		nd := m.nodes.Get(n)
		if nd.hash == h && m.equal(nd.key, k) {
			return n, b
		}
		n = nd.next
	}
	return pool.Nil, b
}

// Equal reports whether a and b hold the same keys with values equal under eq.
func Equal[K comparable, V any](a, b *Map[K, V], eq func(V, V) bool) bool {
	if a.count != b.count {
		return false
	}
	for k, v := range a.All() {
		w, ok := b.Get(k)
		if !ok || !eq(v, w) {
			return false
		}
	}
	return true
}
