// Package rawtable implements the open-addressing hash table that backs the
// hashmap and hashset facades. It is exported for callers that need to
// control the slot payload directly; most code wants the facades.
//
// # Layout
//
// The table keeps an array of fixed-size slots and a parallel array of
// control bytes, one per slot plus a mirrored copy of the first group at the
// tail. A control byte is empty, a tombstone, or the low 7 bits of a full
// slot's hash. Groups of eight control bytes are scanned as a single
// little-endian word using byte-wise masks, so probing checks eight slots
// per step without hardware vector support.
//
// # Probing
//
// A key's hash splits into a bucket seed (hash >> 7) and a 7-bit tag
// (hash & 0x7f). Probing starts at the seed's group and advances by
// triangular steps, which visits every group exactly once while capacity is
// a power of two. Lookups stop at the first group containing an empty slot;
// tombstones never stop a probe, which keeps sequences correct after
// deletions. Tombstone debt is repaid wholesale on resize: rehashing
// reinserts only full slots.
//
// # Fallibility
//
// All memory comes from the alloc.Allocator given at construction. Any
// insertion can fail with that allocator's error or with
// alloc.ErrCapacityOverflow; the table is left exactly as it was.
package rawtable
