package memory

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/internal/mmap"
)

// MmapAllocator serves every block from its own anonymous mapping.
//
// Blocks live off the Go heap, are page aligned and page granular, which makes
// it a good fit for large pointer-free storage such as bucket arrays and slabs
// of plain structs. Buffer never places pointer-holding element types here.
type MmapAllocator struct {
	mu       sync.Mutex
	mappings map[uintptr]*mmap.Mapping
}

// NewMmap creates an allocator backed by anonymous mappings.
func NewMmap() *MmapAllocator {
	return &MmapAllocator{
		mappings: make(map[uintptr]*mmap.Mapping),
	}
}

// Allocate implements Allocator.
func (m *MmapAllocator) Allocate(size, alignment int) ([]byte, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if err := checkPageAlignment(alignment); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		return nil, corekit.OutOfMemory("memory.Mmap.Allocate", size, err)
	}

	data := mapping.Bytes()
	m.mu.Lock()
	m.mappings[blockAddr(data)] = mapping
	m.mu.Unlock()

	return data[:size], nil
}

// Reallocate implements Allocator.
func (m *MmapAllocator) Reallocate(block []byte, size, alignment int) ([]byte, error) {
	if block == nil {
		return m.Allocate(size, alignment)
	}
	if size == 0 {
		m.Free(block, alignment)
		return nil, nil
	}
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if err := checkPageAlignment(alignment); err != nil {
		return nil, err
	}

	if size <= m.AllocationSize(block) {
		grown := block[:size:size]
		if size > len(block) {
			// Reattach the tail of the mapping, then zero it.
			grown = m.lookup("memory.Mmap.Reallocate", block).Bytes()[:size]
			clear(grown[len(block):])
		}
		return grown, nil
	}

	next, err := m.Allocate(size, alignment)
	if err != nil {
		return nil, err
	}
	Copy(next, block)
	m.Free(block, alignment)
	return next, nil
}

// Free implements Allocator.
func (m *MmapAllocator) Free(block []byte, _ int) {
	if block == nil {
		return
	}
	key := blockAddr(block)

	m.mu.Lock()
	mapping, ok := m.mappings[key]
	delete(m.mappings, key)
	m.mu.Unlock()

	if !ok {
		corekit.Violation("memory.Mmap.Free", corekit.ErrInvalidHandle, "block %#x was not allocated here", key)
	}
	_ = mapping.Close()
}

// AllocationSize implements Allocator.
func (m *MmapAllocator) AllocationSize(block []byte) int {
	if block == nil {
		return 0
	}
	return m.lookup("memory.Mmap.AllocationSize", block).Size()
}

// Outstanding returns the number of live mappings.
func (m *MmapAllocator) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mappings)
}

// Close unmaps every outstanding block. Blocks handed out earlier must not be
// used afterwards.
func (m *MmapAllocator) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for key, mapping := range m.mappings {
		if err := mapping.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.mappings, key)
	}
	return firstErr
}

func (m *MmapAllocator) lookup(op string, block []byte) *mmap.Mapping {
	key := blockAddr(block)

	m.mu.Lock()
	mapping, ok := m.mappings[key]
	m.mu.Unlock()

	if !ok {
		corekit.Violation(op, corekit.ErrInvalidHandle, "block %#x was not allocated here", key)
	}
	return mapping
}

// checkPageAlignment accepts the alignments a mapping satisfies by itself.
func checkPageAlignment(alignment int) error {
	align, err := normalizeAlignment(alignment)
	if err != nil {
		return err
	}
	if align > mmap.PageSize() {
		return fmt.Errorf("%w: %d exceeds page size", ErrInvalidAlignment, align)
	}
	return nil
}

func blockAddr(block []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(block))) //nolint:gosec // mapping identity
}
