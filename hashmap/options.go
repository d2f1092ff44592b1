package hashmap

import (
	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/memory"
	"github.com/hupe1980/corekit/pool"
)

const (
	// DefaultBucketCount is the bucket count of a new map.
	DefaultBucketCount = 16
	// MaxLoadFactor is the highest element to bucket ratio a map tolerates.
	MaxLoadFactor = 0.75
)

// Option configures a Map.
type Option func(*options)

type options struct {
	alloc      memory.Allocator
	logger     *corekit.Logger
	buckets    int
	nodePolicy pool.Policy
}

// WithAllocator sets the allocator for the bucket array and node slabs.
func WithAllocator(a memory.Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithLogger sets the logger rehashes are reported to.
func WithLogger(l *corekit.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithBucketCount sets the initial number of buckets.
func WithBucketCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buckets = n
		}
	}
}

// WithNodePolicy sets the growth policy of the node pool. The default is
// pool.Exponential.
func WithNodePolicy(p pool.Policy) Option {
	return func(o *options) {
		o.nodePolicy = p
	}
}

func applyOptions(opts []Option) options {
	o := options{
		alloc:      memory.Default,
		buckets:    DefaultBucketCount,
		nodePolicy: pool.Exponential,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = memory.Default
	}
	return o
}
