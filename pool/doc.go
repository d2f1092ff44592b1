// Package pool provides a slab allocator for fixed-size objects.
//
// A Pool hands out slots from slabs obtained from a memory.Allocator and
// identifies them with small Handle values instead of pointers. Freed slots
// go onto a free list and are reused before the pool grows. Slabs never move,
// so the pointer returned by Get stays valid until the slot is freed or the
// pool is released.
//
// Pools are not safe for concurrent use.
package pool
