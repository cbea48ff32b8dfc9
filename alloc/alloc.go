package alloc

// Block is a region of memory acquired from an Allocator. A block is owned
// by exactly one container at a time; ownership moves with the value and the
// block must be released or resized through the handle that produced it.
// The zero Block denotes "no allocation".
type Block struct {
	Data []byte
}

// Size returns the block's size in bytes.
func (b Block) Size() int { return len(b.Data) }

// IsZero reports whether the block denotes no allocation.
func (b Block) IsZero() bool { return b.Data == nil }

// Allocator is the capability through which memory blocks are acquired,
// resized, and released. Every method is synchronous and non-blocking from
// this layer's perspective, and every failure mode is a returned error.
//
// Requests with layout.Size == 0 succeed and return the zero Block;
// deallocating the zero Block is a no-op.
type Allocator interface {
	// Allocate acquires a block matching layout.
	Allocate(layout Layout) (Block, error)

	// Deallocate releases a block previously acquired with layout through
	// this handle.
	Deallocate(b Block, layout Layout)

	// Grow resizes b from oldLayout to the larger newLayout, preserving the
	// first oldLayout.Size bytes. On failure b remains valid and owned by
	// the caller.
	Grow(b Block, oldLayout, newLayout Layout) (Block, error)

	// Shrink resizes b from oldLayout to the smaller newLayout, preserving
	// the first newLayout.Size bytes. On failure b remains valid and owned
	// by the caller.
	Shrink(b Block, oldLayout, newLayout Layout) (Block, error)
}
