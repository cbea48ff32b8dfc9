// Package boxed provides a single owned heap value bound to an explicit
// allocator.
package boxed

import (
	"unsafe"

	"github.com/tavern-works/rune/alloc"
)

// Box owns exactly one value of T in allocator memory. The memory is
// released exactly once: by IntoInner or by Close. Using a box after either
// is a caller contract violation and panics.
type Box[T any] struct {
	ptr    *T
	block  alloc.Block
	hosted bool
	a      alloc.Allocator
}

// New allocates a box holding value.
func New[T any](a alloc.Allocator, value T) (*Box[T], error) {
	layout := alloc.LayoutOf[T]()
	switch a.(type) {
	case alloc.Global, *alloc.Global:
		// Host-typed storage keeps pointer-bearing values visible to the
		// garbage collector.
		p := new(T)
		*p = value
		return &Box[T]{ptr: p, hosted: true, a: a}, nil
	}
	if layout.Size == 0 {
		return &Box[T]{ptr: new(T), hosted: true, a: a}, nil
	}
	b, err := a.Allocate(layout)
	if err != nil {
		return nil, err
	}
	p := (*T)(unsafe.Pointer(unsafe.SliceData(b.Data)))
	*p = value
	return &Box[T]{ptr: p, block: b, a: a}, nil
}

// Get returns the boxed value. The pointer is valid until the box is
// consumed.
func (b *Box[T]) Get() *T {
	if b.ptr == nil {
		panic("boxed: use after close")
	}
	return b.ptr
}

// IntoInner moves the value out, releasing the box's memory.
func (b *Box[T]) IntoInner() T {
	value := *b.Get()
	b.release()
	return value
}

// Close releases the box's memory. Idempotent.
func (b *Box[T]) Close() {
	if b.ptr == nil {
		return
	}
	b.release()
}

func (b *Box[T]) release() {
	if !b.hosted {
		b.a.Deallocate(b.block, alloc.LayoutOf[T]())
	}
	b.ptr = nil
	b.block = alloc.Block{}
}
