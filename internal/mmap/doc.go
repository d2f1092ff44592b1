// Package mmap provides anonymous read-write mappings for off-heap memory.
//
// Mappings live outside the Go garbage collector's control: the collector
// never scans them, so they must only ever hold pointer-free data.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON | MAP_PRIVATE
//   - Windows: VirtualAlloc with MEM_RESERVE | MEM_COMMIT
//
// # Thread Safety
//
// Close is idempotent and protected by atomic operations. Callers must ensure
// nothing touches Bytes() after Close() returns.
package mmap
