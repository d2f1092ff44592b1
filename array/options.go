package array

import (
	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/memory"
)

// Option configures an Array.
type Option func(*options)

type options struct {
	alloc  memory.Allocator
	logger *corekit.Logger
}

// WithAllocator sets the allocator element storage is obtained from.
func WithAllocator(a memory.Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithLogger sets the logger reallocations are reported to.
func WithLogger(l *corekit.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func applyOptions(opts []Option) options {
	o := options{alloc: memory.Default}
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = memory.Default
	}
	return o
}
