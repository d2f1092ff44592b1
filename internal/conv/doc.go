// Package conv provides checked conversions between Go's int and the
// fixed-width integers used in pool handles.
//
// Conversions that are provably safe by construction (loop indices bounded
// by a checked total) use plain casts instead.
package conv
