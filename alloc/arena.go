package alloc

import "unsafe"

// DefaultSlabSize is the slab granularity an Arena uses unless configured
// otherwise.
const DefaultSlabSize = 1 << 20

// ArenaConfig controls slab sizing and the total-byte cap of an Arena.
type ArenaConfig struct {
	// SlabSize is the size of each slab in bytes. Zero selects
	// DefaultSlabSize. Oversized allocations get a dedicated slab.
	SlabSize int

	// MaxBytes caps the total bytes held across all slabs. Zero means
	// unlimited. Allocations beyond the cap fail with ErrAllocFailed.
	MaxBytes int
}

type slab struct {
	data   []byte
	mapped bool
}

// Arena is a slab bump allocator. Allocation advances an offset within the
// current slab, acquiring a new slab when the current one is exhausted.
// Individual deallocation is a no-op except for the most recent allocation,
// which is rewound; Reset and Close reclaim everything at once.
//
// Slabs come from anonymous mmap on linux and darwin, and from the host heap
// elsewhere. An Arena is not safe for concurrent use.
//
// Blocks handed out by an Arena are raw memory: the host garbage collector
// does not scan them, so values stored in arena-backed containers must not be
// the only reference to a host-heap object.
type Arena struct {
	cfg     ArenaConfig
	slabs   []slab
	current int
	offset  uintptr
	total   int

	// Most recent allocation in the current slab, while still rewindable.
	hasLast   bool
	lastStart uintptr

	closed bool
}

// NewArena creates an empty arena. No slab is acquired until the first
// allocation.
func NewArena(cfg ArenaConfig) *Arena {
	if cfg.SlabSize <= 0 {
		cfg.SlabSize = DefaultSlabSize
	}
	return &Arena{cfg: cfg}
}

func (a *Arena) Allocate(layout Layout) (Block, error) {
	if a.closed || !layout.valid() {
		return Block{}, ErrAllocFailed
	}
	if layout.Size == 0 {
		return Block{}, nil
	}

	if len(a.slabs) > 0 {
		if b, ok := a.bump(layout); ok {
			return b, nil
		}
		// Current slab exhausted. Try a slab retained by Reset before
		// mapping a new one.
		for a.current+1 < len(a.slabs) {
			a.current++
			a.offset = 0
			a.hasLast = false
			if b, ok := a.bump(layout); ok {
				return b, nil
			}
		}
	}

	size := a.cfg.SlabSize
	if want, ok := AddOverflowSafe(int(layout.Size), int(layout.Align)); !ok {
		return Block{}, ErrCapacityOverflow
	} else if want > size {
		size = want
	}
	if a.cfg.MaxBytes > 0 && a.total+size > a.cfg.MaxBytes {
		return Block{}, ErrAllocFailed
	}
	data, mapped, err := mapSlab(size)
	if err != nil {
		return Block{}, err
	}
	a.slabs = append(a.slabs, slab{data: data, mapped: mapped})
	a.current = len(a.slabs) - 1
	a.offset = 0
	a.hasLast = false
	a.total += size

	b, ok := a.bump(layout)
	if !ok {
		return Block{}, ErrAllocFailed
	}
	return b, nil
}

// bump carves layout out of the current slab, returning ok = false when it
// does not fit.
func (a *Arena) bump(layout Layout) (Block, bool) {
	s := a.slabs[a.current].data
	base := uintptr(unsafe.Pointer(unsafe.SliceData(s)))
	aligned := alignUp(base+a.offset, layout.Align) - base
	end := aligned + layout.Size
	if end > uintptr(len(s)) {
		return Block{}, false
	}
	// Slabs are reused after Reset, so zero the region here.
	clear(s[aligned:end])
	a.hasLast = true
	a.lastStart = aligned
	a.offset = end
	return Block{Data: s[aligned:end:end]}, true
}

func (a *Arena) Deallocate(b Block, layout Layout) {
	if a.isLast(b) {
		a.offset = a.lastStart
		a.hasLast = false
	}
}

func (a *Arena) Grow(b Block, oldLayout, newLayout Layout) (Block, error) {
	if a.closed || newLayout.Size < oldLayout.Size {
		return Block{}, ErrAllocFailed
	}
	if a.isLast(b) {
		// Extend the most recent allocation in place when it fits.
		s := a.slabs[a.current].data
		end := a.lastStart + newLayout.Size
		if end <= uintptr(len(s)) {
			clear(s[a.offset:end])
			a.offset = end
			return Block{Data: s[a.lastStart:end:end]}, nil
		}
	}
	nb, err := a.Allocate(newLayout)
	if err != nil {
		return Block{}, err
	}
	copy(nb.Data, b.Data)
	return nb, nil
}

func (a *Arena) Shrink(b Block, oldLayout, newLayout Layout) (Block, error) {
	if a.closed || newLayout.Size > oldLayout.Size {
		return Block{}, ErrAllocFailed
	}
	if newLayout.Size == 0 {
		a.Deallocate(b, oldLayout)
		return Block{}, nil
	}
	if a.isLast(b) {
		a.offset = a.lastStart + newLayout.Size
	}
	end := newLayout.Size
	return Block{Data: b.Data[:end:end]}, nil
}

// isLast reports whether b is the most recent allocation from the current
// slab, which is the only block an arena can rewind.
func (a *Arena) isLast(b Block) bool {
	if !a.hasLast || b.IsZero() || len(a.slabs) == 0 {
		return false
	}
	s := a.slabs[a.current].data
	if a.lastStart >= uintptr(len(s)) {
		return false
	}
	return unsafe.SliceData(b.Data) == &s[a.lastStart] &&
		a.lastStart+uintptr(len(b.Data)) == a.offset
}

// Reset rewinds the arena to empty, retaining slabs for reuse. Every block
// previously handed out becomes invalid.
func (a *Arena) Reset() {
	a.current = 0
	a.offset = 0
	a.hasLast = false
}

// Close releases all slabs back to the system. The arena is unusable
// afterwards; Close is idempotent.
func (a *Arena) Close() {
	for _, s := range a.slabs {
		releaseSlab(s.data, s.mapped)
	}
	a.slabs = nil
	a.total = 0
	a.hasLast = false
	a.closed = true
}

// Used returns the bytes bump-allocated since the last Reset.
func (a *Arena) Used() int {
	if len(a.slabs) == 0 {
		return 0
	}
	n := 0
	for i := 0; i < a.current; i++ {
		n += len(a.slabs[i].data)
	}
	return n + int(a.offset)
}

// Footprint returns the total bytes held across all slabs.
func (a *Arena) Footprint() int { return a.total }

func alignUp(p, align uintptr) uintptr {
	return (p + align - 1) &^ (align - 1)
}
