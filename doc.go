// Package corekit is the container and memory foundation of an engine core.
//
// Every container in this module obtains its storage through the allocator
// facade in package memory, exposes explicit capacity and growth control and
// gives deterministic layout for performance-sensitive code.
//
// # Packages
//
//   - memory: allocator facade, heap/mmap/budgeted/tracking allocators, typed buffers
//   - fixed: fixed-capacity sequence with inline storage
//   - array: growable contiguous sequence
//   - queue: circular-buffer queue
//   - hashmap: open-hashing (separate chaining) map
//   - pool: typed slab allocator with a free list
//
// # Quick Start
//
//	a := array.New[int]()
//	if err := a.PushBack(42); err != nil { ... }
//
//	m, _ := hashmap.New[string, int]()
//	m.Insert("answer", 42)
//
// # Errors
//
// Mutating operations that may allocate return an error wrapping
// ErrOutOfMemory when the allocator cannot serve the request.
// Precondition violations (index out of range, popping an empty container,
// stale iterators, double frees) are programmer errors: they always panic
// with a *ContractError.
//
// # Concurrency
//
// Containers and pools are not internally synchronized. Concurrent access to
// a single container or pool requires external locking. The allocators in
// package memory are safe for concurrent use and may be shared.
package corekit
