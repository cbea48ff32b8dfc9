// Package mem provides fallible typed storage on top of the alloc layer.
// Containers hold their elements in a Slice[T] and never touch raw blocks
// directly.
package mem

import (
	"unsafe"

	"github.com/tavern-works/rune/alloc"
)

// Slice is a typed array of capacity elements backed either by host-typed
// memory (when the allocator is alloc.Global) or by a raw block from a
// custom allocator. The host-typed path keeps element types that contain
// host pointers visible to the garbage collector; the raw path carries the
// reachability constraint documented on alloc.Arena.
type Slice[T any] struct {
	elems  []T
	block  alloc.Block
	hosted bool
}

// Elems returns the full-capacity element slice. It is nil for the zero
// Slice.
func (s Slice[T]) Elems() []T { return s.elems }

// Cap returns the element capacity.
func (s Slice[T]) Cap() int { return len(s.elems) }

// hostTyped reports whether allocations through a should use host-typed
// memory. Zero-sized element types never need real memory.
func hostTyped[T any](a alloc.Allocator) bool {
	var v T
	if unsafe.Sizeof(v) == 0 {
		return true
	}
	switch a.(type) {
	case alloc.Global, *alloc.Global:
		return true
	}
	return false
}

// view reinterprets a block as n elements of T.
func view[T any](b alloc.Block, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b.Data))), n)
}

// AllocSlice acquires storage for n elements of T. It fails with
// alloc.ErrCapacityOverflow before calling the allocator when n*sizeof(T)
// is not representable.
func AllocSlice[T any](a alloc.Allocator, n int) (Slice[T], error) {
	if n == 0 {
		return Slice[T]{}, nil
	}
	layout, err := alloc.LayoutArray[T](n)
	if err != nil {
		return Slice[T]{}, err
	}
	if hostTyped[T](a) {
		return Slice[T]{elems: make([]T, n), hosted: true}, nil
	}
	b, err := a.Allocate(layout)
	if err != nil {
		return Slice[T]{}, err
	}
	return Slice[T]{elems: view[T](b, n), block: b}, nil
}

// GrowSlice enlarges s to hold n elements, preserving existing elements. On
// failure s remains valid. Growing the zero Slice is an allocation.
func GrowSlice[T any](a alloc.Allocator, s Slice[T], n int) (Slice[T], error) {
	if n <= s.Cap() {
		return s, nil
	}
	if s.Cap() == 0 {
		return AllocSlice[T](a, n)
	}
	newLayout, err := alloc.LayoutArray[T](n)
	if err != nil {
		return Slice[T]{}, err
	}
	if s.hosted {
		elems := make([]T, n)
		copy(elems, s.elems)
		return Slice[T]{elems: elems, hosted: true}, nil
	}
	oldLayout, err := alloc.LayoutArray[T](s.Cap())
	if err != nil {
		return Slice[T]{}, err
	}
	b, err := a.Grow(s.block, oldLayout, newLayout)
	if err != nil {
		return Slice[T]{}, err
	}
	return Slice[T]{elems: view[T](b, n), block: b}, nil
}

// ShrinkSlice reduces s to hold n elements, preserving the first n. On
// failure s remains valid. Shrinking to zero releases the storage.
func ShrinkSlice[T any](a alloc.Allocator, s Slice[T], n int) (Slice[T], error) {
	if n >= s.Cap() {
		return s, nil
	}
	if n == 0 {
		FreeSlice(a, s)
		return Slice[T]{}, nil
	}
	if s.hosted {
		elems := make([]T, n)
		copy(elems, s.elems[:n])
		return Slice[T]{elems: elems, hosted: true}, nil
	}
	oldLayout, err := alloc.LayoutArray[T](s.Cap())
	if err != nil {
		return Slice[T]{}, err
	}
	newLayout, err := alloc.LayoutArray[T](n)
	if err != nil {
		return Slice[T]{}, err
	}
	b, err := a.Shrink(s.block, oldLayout, newLayout)
	if err != nil {
		return Slice[T]{}, err
	}
	return Slice[T]{elems: view[T](b, n), block: b}, nil
}

// FreeSlice releases s back to its allocator. Freeing the zero Slice is a
// no-op.
func FreeSlice[T any](a alloc.Allocator, s Slice[T]) {
	if s.hosted || s.Cap() == 0 {
		return
	}
	layout, err := alloc.LayoutArray[T](s.Cap())
	if err != nil {
		return
	}
	a.Deallocate(s.block, layout)
}
