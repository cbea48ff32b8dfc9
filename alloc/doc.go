// Package alloc provides the fallible allocation layer that every container
// in this module is built on.
//
// # Overview
//
// Containers in this module never allocate through the host heap implicitly.
// Every byte they hold comes from an Allocator handle passed at construction
// time, and every operation that may need more memory returns an error
// instead of aborting the process. This is what lets an embedding runtime
// survive a script that tries to allocate without bound: the failure surfaces
// as ErrAllocFailed (or ErrCapacityOverflow, when the requested size cannot
// even be represented) and the container is left in its previous valid state.
//
// # Allocator contract
//
// An Allocator hands out Blocks described by a Layout (size plus power-of-two
// alignment):
//
//   - Allocate(layout): acquire a new block
//   - Deallocate(block, layout): release a block acquired from this handle
//   - Grow(block, old, new): enlarge a block, preserving the old bytes
//   - Shrink(block, old, new): reduce a block, preserving the prefix
//
// Blocks stay valid until released or resized through the same handle. A
// handle carries no per-block state and may be shared by many containers;
// each block is owned by exactly one container at a time. Returning success
// with an unaligned or undersized block violates the contract and is a
// programming error, not a recoverable condition.
//
// # Implementations
//
// Global: the host heap. Zero-sized, always available, and the conventional
// default. It only fails on size overflow, since the Go runtime does not
// report heap exhaustion.
//
// Arena: a slab bump allocator with an optional total-byte cap. Slabs are
// acquired from anonymous mmap on linux/darwin and from the host heap
// elsewhere. Freeing individual blocks is a no-op except for the most recent
// allocation; Reset and Close release everything at once.
//
// Limit: wraps another Allocator and fails deterministically once a byte
// budget or an allocation-count budget is exhausted. This is the fault
// injector the container tests are written against.
//
// # Usage
//
//	a := alloc.NewLimit(alloc.Global{}, 1<<20, -1)
//	v, err := vec.WithCapacity[int](a, 128)
//	if err != nil {
//	    // budget exhausted before the vector could reserve its storage
//	}
package alloc
