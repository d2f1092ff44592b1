package pool

import (
	"github.com/hupe1980/corekit"
	"github.com/hupe1980/corekit/memory"
)

// Policy selects how many slots a pool adds when it runs out.
type Policy int

const (
	// Linear adds a fixed number of slots (see WithLinearIncrement).
	Linear Policy = iota
	// Exponential doubles the slot count, starting at 16.
	Exponential
)

func (p Policy) String() string {
	switch p {
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// DefaultLinearIncrement is the slab size of linear pools.
const DefaultLinearIncrement = 16

// Option configures a Pool.
type Option func(*options)

type options struct {
	alloc     memory.Allocator
	logger    *corekit.Logger
	policy    Policy
	increment int
}

// WithAllocator sets the allocator slabs are obtained from.
func WithAllocator(a memory.Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithLogger sets the logger for slab events.
func WithLogger(l *corekit.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPolicy sets the growth policy. The default is Linear.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLinearIncrement sets the number of slots a linear pool adds at a time.
func WithLinearIncrement(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.increment = n
		}
	}
}
