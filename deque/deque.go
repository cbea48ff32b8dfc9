// Package deque provides an allocator-backed double-ended queue. It is the
// sequence counterpart of vec for workloads that push and pop at both ends,
// implemented as a ring buffer over one contiguous allocation.
package deque

import (
	"fmt"

	"github.com/tavern-works/rune/alloc"
	"github.com/tavern-works/rune/internal/mem"
)

const minCapacity = 4

// Deque is a ring buffer of T. Element i lives at (head+i) mod Cap. Growth
// re-lays the ring contiguously from index zero; every growth path is
// fallible.
//
// A Deque is not safe for concurrent use.
type Deque[T any] struct {
	buf  mem.Slice[T]
	head int
	len  int
	a    alloc.Allocator
}

// New creates an empty deque with no allocation.
func New[T any](a alloc.Allocator) *Deque[T] {
	return &Deque[T]{a: a}
}

// WithCapacity creates a deque pre-sized for n elements.
func WithCapacity[T any](a alloc.Allocator, n int) (*Deque[T], error) {
	d := New[T](a)
	if err := d.Reserve(n); err != nil {
		return nil, err
	}
	return d, nil
}

// FromSlice creates a deque holding a copy of src, front first.
func FromSlice[T any](a alloc.Allocator, src []T) (*Deque[T], error) {
	d, err := WithCapacity[T](a, len(src))
	if err != nil {
		return nil, err
	}
	copy(d.buf.Elems(), src)
	d.len = len(src)
	return d, nil
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int { return d.len }

// Cap returns the allocated element capacity.
func (d *Deque[T]) Cap() int { return d.buf.Cap() }

func (d *Deque[T]) index(i int) int {
	return (d.head + i) % d.buf.Cap()
}

// Reserve ensures capacity for additional more elements beyond Len.
func (d *Deque[T]) Reserve(additional int) error {
	need, ok := alloc.AddOverflowSafe(d.len, additional)
	if !ok {
		return alloc.ErrCapacityOverflow
	}
	if need <= d.buf.Cap() {
		return nil
	}
	newCap := need
	if doubled, ok := alloc.MulOverflowSafe(d.buf.Cap(), 2); ok && doubled > newCap {
		newCap = doubled
	}
	if newCap < minCapacity {
		newCap = minCapacity
	}

	// The ring may wrap, so grow into a fresh allocation and re-lay the
	// elements contiguously from index zero.
	buf, err := mem.AllocSlice[T](d.a, newCap)
	if err != nil {
		return err
	}
	d.copyOut(buf.Elems())
	mem.FreeSlice(d.a, d.buf)
	d.buf = buf
	d.head = 0
	return nil
}

// copyOut writes the elements, front first, into dst.
func (d *Deque[T]) copyOut(dst []T) {
	if d.len == 0 {
		return
	}
	elems := d.buf.Elems()
	tail := d.head + d.len
	if tail <= len(elems) {
		copy(dst, elems[d.head:tail])
		return
	}
	n := copy(dst, elems[d.head:])
	copy(dst[n:], elems[:tail-len(elems)])
}

// PushBack appends value at the back.
func (d *Deque[T]) PushBack(value T) error {
	if d.len == d.buf.Cap() {
		if err := d.Reserve(1); err != nil {
			return err
		}
	}
	d.buf.Elems()[d.index(d.len)] = value
	d.len++
	return nil
}

// PushFront prepends value at the front.
func (d *Deque[T]) PushFront(value T) error {
	if d.len == d.buf.Cap() {
		if err := d.Reserve(1); err != nil {
			return err
		}
	}
	d.head = d.index(d.buf.Cap() - 1)
	d.buf.Elems()[d.head] = value
	d.len++
	return nil
}

// PopFront removes and returns the front element.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.len == 0 {
		return zero, false
	}
	elems := d.buf.Elems()
	value := elems[d.head]
	elems[d.head] = zero
	d.head = d.index(1)
	d.len--
	return value, true
}

// PopBack removes and returns the back element.
func (d *Deque[T]) PopBack() (T, bool) {
	var zero T
	if d.len == 0 {
		return zero, false
	}
	d.len--
	elems := d.buf.Elems()
	i := d.index(d.len)
	value := elems[i]
	elems[i] = zero
	return value, true
}

// Front returns a pointer to the front element, or nil when empty.
func (d *Deque[T]) Front() *T {
	if d.len == 0 {
		return nil
	}
	return &d.buf.Elems()[d.head]
}

// Back returns a pointer to the back element, or nil when empty.
func (d *Deque[T]) Back() *T {
	if d.len == 0 {
		return nil
	}
	return &d.buf.Elems()[d.index(d.len-1)]
}

// Get returns the element at logical index i (0 = front), ok = false when
// out of range.
func (d *Deque[T]) Get(i int) (T, bool) {
	if i < 0 || i >= d.len {
		var zero T
		return zero, false
	}
	return d.buf.Elems()[d.index(i)], true
}

// At returns a pointer to the element at logical index i. Out-of-range
// indices panic.
func (d *Deque[T]) At(i int) *T {
	if i < 0 || i >= d.len {
		panic(fmt.Sprintf("deque: index %d out of range [0,%d)", i, d.len))
	}
	return &d.buf.Elems()[d.index(i)]
}

// All calls yield for each logical index and element, front first, until
// yield returns false.
func (d *Deque[T]) All(yield func(int, T) bool) {
	for i := 0; i < d.len; i++ {
		if !yield(i, d.buf.Elems()[d.index(i)]) {
			return
		}
	}
}

// Clear removes all elements, keeping capacity.
func (d *Deque[T]) Clear() {
	if d.len == 0 {
		return
	}
	elems := d.buf.Elems()
	tail := d.head + d.len
	if tail <= len(elems) {
		clear(elems[d.head:tail])
	} else {
		clear(elems[d.head:])
		clear(elems[:tail-len(elems)])
	}
	d.head = 0
	d.len = 0
}

// Close releases the deque's storage back to its allocator.
func (d *Deque[T]) Close() {
	mem.FreeSlice(d.a, d.buf)
	d.buf = mem.Slice[T]{}
	d.head = 0
	d.len = 0
}
