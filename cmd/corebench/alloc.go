package main

import (
	"fmt"

	"github.com/hupe1980/corekit/memory"
)

// allocStack is the allocator chain of one run: tracking on top of an
// optional budget on top of the backend.
type allocStack struct {
	tracking *memory.Tracking
	budget   *memory.Budgeted
	mmap     *memory.MmapAllocator
}

func newAllocStack(backend string, limit int64) (*allocStack, error) {
	s := &allocStack{}

	var base memory.Allocator
	switch backend {
	case "heap":
		base = memory.NewHeap()
	case "mmap":
		s.mmap = memory.NewMmap()
		base = s.mmap
	default:
		return nil, fmt.Errorf("unknown allocator %q (want heap or mmap)", backend)
	}

	if limit > 0 {
		s.budget = memory.NewBudgeted(base, limit)
		base = s.budget
	}
	s.tracking = memory.NewTracking(base)
	return s, nil
}

// Allocator returns the allocator containers should use.
func (s *allocStack) Allocator() memory.Allocator {
	return s.tracking
}

// Close unmaps whatever the mmap backend still holds.
func (s *allocStack) Close() error {
	if s.mmap != nil {
		return s.mmap.Close()
	}
	return nil
}
