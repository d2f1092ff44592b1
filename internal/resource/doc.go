// Package resource implements the budget controller shared by allocators and tools.
//
// The Controller governs two resources:
//
//   - Memory: a hard byte budget (non-blocking, fail-fast) with usage and peak tracking
//   - Workers: a bound on concurrently running workloads
//
// # Memory Budget
//
// A weighted semaphore enforces the limit; atomic counters track usage.
// AcquireMemory never blocks. It returns ErrBudgetExceeded immediately and the
// caller (an allocator) turns that into an out-of-memory result:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrBudgetExceeded
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
