// Package mem provides aligned slice allocation for buffers accessed in bulk.
package mem

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// AlignedSlice returns a zeroed slice of n elements of type T whose backing
// array starts at an address aligned to align bytes. align must be a power
// of two and a multiple of the element size. The returned slice has its
// capacity clipped to n so that appends cannot silently reallocate an
// unaligned buffer.
func AlignedSlice[T constraints.Integer | constraints.Float](n, align int) []T {

	var t T
	size := int(unsafe.Sizeof(t))

	if align <= 0 || align&(align-1) != 0 || align%size != 0 {
		panic(fmt.Errorf("invalid alignment: must be a power of two multiple of the element size %d but is %d", size, align))
	}

	if n < 0 {
		panic(fmt.Errorf("invalid length: %d", n))
	}

	buf := make([]T, n+align/size)

	/* #nosec G103 -- address inspection only, the slice is not reinterpreted */
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	var off int
	if rem := int(addr) & (align - 1); rem != 0 {
		// addr is already a multiple of size, so the distance to the
		// next align boundary is a whole number of elements.
		off = (align - rem) / size
	}

	return buf[off : off+n : off+n]
}

// IsAligned reports whether the first element of s sits on an address that
// is a multiple of align bytes. A nil or empty slice is considered aligned.
func IsAligned[T constraints.Integer | constraints.Float](s []T, align int) bool {
	if len(s) == 0 {
		return true
	}
	/* #nosec G103 -- address inspection only */
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))&uintptr(align-1) == 0
}
