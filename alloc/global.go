package alloc

import "unsafe"

// Global allocates from the host heap. It is zero-sized, copyable, and the
// conventional default handle to pass at container construction sites.
//
// The host heap cannot report exhaustion to us, so Allocate only fails for
// invalid layouts. Deterministic failure for testing is provided by wrapping
// Global in a Limit.
type Global struct{}

// hostAlign is the alignment guaranteed by the word-backed allocation path.
const hostAlign = 8

func (Global) Allocate(layout Layout) (Block, error) {
	if !layout.valid() {
		return Block{}, ErrAllocFailed
	}
	if layout.Size == 0 {
		return Block{}, nil
	}
	if layout.Align <= hostAlign {
		// Backing the block with a word slice guarantees 8-byte alignment;
		// make([]byte, n) alone does not for small sizes.
		words := make([]uint64, (layout.Size+hostAlign-1)/hostAlign)
		data := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), layout.Size)
		return Block{Data: data}, nil
	}
	// Over-allocate and offset to the first aligned address.
	raw := make([]byte, layout.Size+layout.Align-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := (layout.Align - base%layout.Align) % layout.Align
	return Block{Data: raw[off : off+layout.Size : off+layout.Size]}, nil
}

func (Global) Deallocate(b Block, layout Layout) {
	// The host garbage collector reclaims the block once the owner drops it.
}

func (g Global) Grow(b Block, oldLayout, newLayout Layout) (Block, error) {
	if newLayout.Size < oldLayout.Size {
		return Block{}, ErrAllocFailed
	}
	nb, err := g.Allocate(newLayout)
	if err != nil {
		return Block{}, err
	}
	copy(nb.Data, b.Data)
	return nb, nil
}

func (g Global) Shrink(b Block, oldLayout, newLayout Layout) (Block, error) {
	if newLayout.Size > oldLayout.Size {
		return Block{}, ErrAllocFailed
	}
	nb, err := g.Allocate(newLayout)
	if err != nil {
		return Block{}, err
	}
	copy(nb.Data, b.Data[:newLayout.Size])
	return nb, nil
}
