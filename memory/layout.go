package memory

import (
	"reflect"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the cache line size of the running CPU as known to x/sys/cpu.
const CacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

var trivialCache sync.Map // reflect.Type -> bool

// IsTrivial reports whether T contains no Go pointers.
//
// Values of trivial types may live in memory the garbage collector does not
// scan, such as blocks from MmapAllocator. All other types are stored in
// Go-managed slices and only accounted against the allocator.
func IsTrivial[T any]() bool {
	typ := reflect.TypeFor[T]()
	if v, ok := trivialCache.Load(typ); ok {
		return v.(bool)
	}
	trivial := isTrivialType(typ)
	trivialCache.Store(typ, trivial)
	return trivial
}

func isTrivialType(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return typ.Len() == 0 || isTrivialType(typ.Elem())
	case reflect.Struct:
		for i := range typ.NumField() {
			if !isTrivialType(typ.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// SizeOf returns the size of T in bytes.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// AlignOf returns the alignment of T in bytes.
func AlignOf[T any]() int {
	var zero T
	return int(unsafe.Alignof(zero))
}

// BytesFor returns the number of bytes n values of T occupy, or an error
// wrapping ErrInvalidSize when n is negative or the product overflows.
func BytesFor[T any](n int) (int, error) {
	return mulSize(n, SizeOf[T]())
}
