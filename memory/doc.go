// Package memory is the allocator facade every container in corekit draws from.
//
// # Allocators
//
//   - Heap: Go heap blocks aligned by over-allocation (the Default allocator)
//   - MmapAllocator: off-heap anonymous mappings, page granular
//   - Budgeted: enforces a hard byte budget on top of another allocator
//   - Tracking: keeps allocation statistics for diagnostics and metrics
//
// Wrappers compose, e.g. NewTracking(NewBudgeted(Default, 64<<20)).
//
// # Typed Storage
//
// Buffer[T] turns allocator blocks into typed slots. Element types that hold
// no Go pointers (see IsTrivial) are laid out directly in allocator bytes and
// relocated with bulk copies. Element types holding pointers must stay visible
// to the garbage collector, so their slots live on the Go heap while their
// byte size is charged to allocators implementing Accountant. Budgets and
// statistics therefore observe every element byte either way.
//
// # Failure
//
// Allocators never panic on exhaustion: they return an error wrapping
// corekit.ErrOutOfMemory and the caller decides how to react.
//
// All allocators in this package are safe for concurrent use; the containers
// built on them are not.
package memory
