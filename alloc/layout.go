package alloc

import (
	"math"
	"unsafe"
)

// Layout describes a memory request: a size in bytes and a power-of-two
// alignment. The zero Layout describes the empty request.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of a single value of type T.
func LayoutOf[T any]() Layout {
	var v T
	return Layout{Size: unsafe.Sizeof(v), Align: unsafe.Alignof(v)}
}

// LayoutArray returns the layout of a contiguous array of n values of type T.
// It fails with ErrCapacityOverflow when n*sizeof(T) is not representable.
func LayoutArray[T any](n int) (Layout, error) {
	var v T
	size := unsafe.Sizeof(v)
	if n < 0 {
		return Layout{}, ErrCapacityOverflow
	}
	total, ok := MulOverflowSafe(n, int(size))
	if !ok {
		return Layout{}, ErrCapacityOverflow
	}
	return Layout{Size: uintptr(total), Align: unsafe.Alignof(v)}, nil
}

// valid reports whether the layout's alignment is a non-zero power of two.
func (l Layout) valid() bool {
	return l.Align != 0 && l.Align&(l.Align-1) == 0
}

// AddOverflowSafe adds a and b, returning ok = false when the result would
// overflow int. Sizes are non-negative; negative inputs also report false.
func AddOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result
// would overflow int. This guards every count * elementSize computation made
// on behalf of a container before the allocator is ever called.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// NextPow2 returns the smallest power of two >= n. It returns ok = false
// when that power of two does not fit in int.
func NextPow2(n int) (int, bool) {
	if n <= 1 {
		return 1, true
	}
	p := 1
	for p < n {
		if p > math.MaxInt/2 {
			return 0, false
		}
		p <<= 1
	}
	return p, true
}
