// Package hashmap implements an open-hashing (separately chained) map whose
// nodes and bucket array come from a memory.Allocator.
//
// Each bucket heads a singly linked chain of nodes. Nodes live in a
// pool.Pool and are linked by pool handles, so a rehash only rewrites links
// and never copies keys or values. The map doubles its bucket count whenever
// an insertion of a new key would push the load factor above 0.75.
//
// # Iterators
//
// An Iterator is bound to the map that produced it and to the map's bucket
// layout at that time. A rehash, Clear, Release, Move or Swap invalidates
// every outstanding iterator; removing an element only invalidates iterators
// positioned at that element. Dereferencing or advancing an end iterator or
// an invalidated one, or passing an iterator to another map's RemoveAt,
// panics with corekit.ErrInvalidIterator.
//
// Inserting a new key may rehash. Callers that iterate while inserting must
// restart from Begin afterwards.
//
// Maps are not safe for concurrent use.
package hashmap
