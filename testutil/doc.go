// Package testutil provides deterministic randomness for corekit tests and
// benchmarks.
//
// Randomized property tests drive a container and a plain Go model with the
// same operation stream and compare them afterwards:
//
//	rng := testutil.NewRNG(4711)
//	for _, op := range rng.Ops(1000, 3) {
//		switch op.Kind { ... }
//	}
//
// Key generators cover uniform, distinct and Zipf-skewed distributions.
package testutil
