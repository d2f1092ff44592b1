package hashmap

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// HashFunc hashes a key. Equal keys must produce equal hashes.
type HashFunc[K any] func(K) uint64

// EqualFunc reports whether two keys are equal.
type EqualFunc[K any] func(a, b K) bool

// HashString hashes s with xxHash64. It is stable across processes.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashBytes hashes b with xxHash64.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

func defaultHash[K comparable]() HashFunc[K] {
	seed := maphash.MakeSeed()
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

func defaultEqual[K comparable](a, b K) bool {
	return a == b
}
