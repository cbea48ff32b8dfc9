// Package vec provides a growable contiguous vector whose storage comes
// from an explicit allocator and whose every growth path is fallible.
package vec

import (
	"fmt"

	"github.com/tavern-works/rune/alloc"
	"github.com/tavern-works/rune/internal/mem"
)

// minCapacity is the smallest non-zero element capacity, bounding the
// number of reallocations for small vectors.
const minCapacity = 4

// Vec is a dynamic array of T. Elements [0, Len) are initialized;
// [Len, Cap) is reserve the vector reuses freely. The zero capacity state
// holds no allocation.
//
// Out-of-range indices are caller contract violations and panic; every
// condition caused by input size returns an error instead.
//
// A Vec is not safe for concurrent use.
type Vec[T any] struct {
	buf mem.Slice[T]
	len int
	a   alloc.Allocator
}

// New creates an empty vector with no allocation.
func New[T any](a alloc.Allocator) *Vec[T] {
	return &Vec[T]{a: a}
}

// WithCapacity creates a vector pre-sized for n elements.
func WithCapacity[T any](a alloc.Allocator, n int) (*Vec[T], error) {
	v := New[T](a)
	if err := v.Reserve(n); err != nil {
		return nil, err
	}
	return v, nil
}

// FromSlice creates a vector holding a copy of src.
func FromSlice[T any](a alloc.Allocator, src []T) (*Vec[T], error) {
	v, err := WithCapacity[T](a, len(src))
	if err != nil {
		return nil, err
	}
	copy(v.buf.Elems(), src)
	v.len = len(src)
	return v, nil
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int { return v.len }

// Cap returns the allocated element capacity.
func (v *Vec[T]) Cap() int { return v.buf.Cap() }

// Reserve ensures capacity for additional more elements beyond Len. Growth
// doubles the capacity (amortized O(1) pushes) and fails with
// alloc.ErrCapacityOverflow before any allocator call when the byte size is
// not representable.
func (v *Vec[T]) Reserve(additional int) error {
	need, ok := alloc.AddOverflowSafe(v.len, additional)
	if !ok {
		return alloc.ErrCapacityOverflow
	}
	if need <= v.buf.Cap() {
		return nil
	}
	newCap := need
	if doubled, ok := alloc.MulOverflowSafe(v.buf.Cap(), 2); ok && doubled > newCap {
		newCap = doubled
	}
	if newCap < minCapacity {
		newCap = minCapacity
	}
	buf, err := mem.GrowSlice(v.a, v.buf, newCap)
	if err != nil {
		return err
	}
	v.buf = buf
	return nil
}

// Push appends value, growing if needed.
func (v *Vec[T]) Push(value T) error {
	if v.len == v.buf.Cap() {
		if err := v.Reserve(1); err != nil {
			return err
		}
	}
	v.buf.Elems()[v.len] = value
	v.len++
	return nil
}

// AppendSlice appends a copy of src, reserving once up front.
func (v *Vec[T]) AppendSlice(src []T) error {
	if err := v.Reserve(len(src)); err != nil {
		return err
	}
	copy(v.buf.Elems()[v.len:], src)
	v.len += len(src)
	return nil
}

// Pop removes and returns the last element.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	if v.len == 0 {
		return zero, false
	}
	v.len--
	elems := v.buf.Elems()
	value := elems[v.len]
	elems[v.len] = zero
	return value, true
}

// Insert places value at index i, shifting trailing elements right.
// i == Len appends. O(n).
func (v *Vec[T]) Insert(i int, value T) error {
	if i < 0 || i > v.len {
		panic(fmt.Sprintf("vec: insert index %d out of range [0,%d]", i, v.len))
	}
	if v.len == v.buf.Cap() {
		if err := v.Reserve(1); err != nil {
			return err
		}
	}
	elems := v.buf.Elems()
	copy(elems[i+1:v.len+1], elems[i:v.len])
	elems[i] = value
	v.len++
	return nil
}

// Remove deletes and returns the element at index i, shifting trailing
// elements left. O(n).
func (v *Vec[T]) Remove(i int) T {
	if i < 0 || i >= v.len {
		panic(fmt.Sprintf("vec: remove index %d out of range [0,%d)", i, v.len))
	}
	var zero T
	elems := v.buf.Elems()
	value := elems[i]
	copy(elems[i:v.len-1], elems[i+1:v.len])
	v.len--
	elems[v.len] = zero
	return value
}

// Get returns the element at index i, ok = false when out of range.
func (v *Vec[T]) Get(i int) (T, bool) {
	if i < 0 || i >= v.len {
		var zero T
		return zero, false
	}
	return v.buf.Elems()[i], true
}

// At returns a pointer to the element at index i, valid until the next
// mutating operation. Out-of-range indices panic.
func (v *Vec[T]) At(i int) *T {
	if i < 0 || i >= v.len {
		panic(fmt.Sprintf("vec: index %d out of range [0,%d)", i, v.len))
	}
	return &v.buf.Elems()[i]
}

// Set replaces the element at index i. Out-of-range indices panic.
func (v *Vec[T]) Set(i int, value T) {
	*v.At(i) = value
}

// Truncate shortens the vector to n elements. A no-op when n >= Len.
func (v *Vec[T]) Truncate(n int) {
	if n < 0 || n >= v.len {
		return
	}
	clear(v.buf.Elems()[n:v.len])
	v.len = n
}

// Clear removes all elements, keeping capacity.
func (v *Vec[T]) Clear() { v.Truncate(0) }

// ShrinkToFit reduces capacity to Len, releasing storage when empty.
func (v *Vec[T]) ShrinkToFit() error {
	buf, err := mem.ShrinkSlice(v.a, v.buf, v.len)
	if err != nil {
		return err
	}
	v.buf = buf
	return nil
}

// Slice returns the live elements as a view. It is invalidated by any
// mutating operation.
func (v *Vec[T]) Slice() []T {
	if v.len == 0 {
		return nil
	}
	return v.buf.Elems()[:v.len]
}

// All calls yield for each index and element until yield returns false.
// Serialization drives this to walk the vector in index order.
func (v *Vec[T]) All(yield func(int, T) bool) {
	for i, e := range v.Slice() {
		if !yield(i, e) {
			return
		}
	}
}

// Close releases the vector's storage back to its allocator. The vector is
// empty afterwards and may be reused.
func (v *Vec[T]) Close() {
	mem.FreeSlice(v.a, v.buf)
	v.buf = mem.Slice[T]{}
	v.len = 0
}
