package rawtable

import (
	"encoding/binary"
	"math/bits"
)

// Each slot has one control byte:
//
//	  empty: 1 0 0 0 0 0 0 0
//	deleted: 1 1 1 1 1 1 1 0   (tombstone)
//	   full: 0 h h h h h h h   (h = low 7 bits of the slot's hash)
//
// Control bytes are scanned a group at a time: eight bytes are loaded as one
// little-endian word and matched with byte-wise bit tricks, the portable
// equivalent of a SIMD compare.
const (
	groupSize = 8

	ctrlEmpty   uint8 = 0b1000_0000
	ctrlDeleted uint8 = 0b1111_1110

	lsbs uint64 = 0x0101010101010101
	msbs uint64 = 0x8080808080808080
)

func isFull(c uint8) bool { return c&0x80 == 0 }

// h1 is the bucket seed: everything above the 7 tag bits.
func h1(h uint64) uint64 { return h >> 7 }

// h2 is the 7-bit tag stored in a full slot's control byte.
func h2(h uint64) uint8 { return uint8(h & 0x7f) }

// group is a word of eight consecutive control bytes. Groups may start at
// any slot index; the mirrored tail of the control array keeps the load in
// bounds near the wrap point.
type group uint64

func loadGroup(ctrls []uint8, offset uint64) group {
	return group(binary.LittleEndian.Uint64(ctrls[offset : offset+groupSize]))
}

// matchTag returns the slots in the group that are full with the given tag.
// The word trick can produce a false positive for adjacent tag values, which
// only costs an extra key comparison, never a wrong result.
func (g group) matchTag(tag uint8) bitset {
	v := uint64(g) ^ (lsbs * uint64(tag))
	return bitset(((v - lsbs) &^ v) & msbs)
}

// matchEmpty returns the empty slots in the group. A byte is empty iff its
// MSB is set and bit 1 is clear, which distinguishes 0x80 from 0xfe.
func (g group) matchEmpty() bitset {
	v := uint64(g)
	return bitset((v &^ (v << 6)) & msbs)
}

// matchFree returns the slots that are empty or tombstoned: MSB set, bit 0
// clear.
func (g group) matchFree() bitset {
	v := uint64(g)
	return bitset((v &^ (v << 7)) & msbs)
}

// bitset marks slots within a group, one MSB per byte.
type bitset uint64

// first returns the relative index of the first marked slot.
func (b bitset) first() uint64 {
	return uint64(bits.TrailingZeros64(uint64(b))) >> 3
}

// dropFirst clears the first marked slot. Only MSB-per-byte bits are ever
// set, so clearing the lowest set bit suffices.
func (b bitset) dropFirst() bitset { return b & (b - 1) }

// absentAtStart returns how many leading slots of the group are unmarked.
func (b bitset) absentAtStart() uint64 { return b.first() }

// absentAtEnd returns how many trailing slots of the group are unmarked.
func (b bitset) absentAtEnd() uint64 {
	return uint64(bits.LeadingZeros64(uint64(b))) >> 3
}

// probeSeq walks the table in triangular steps of whole groups:
//
//	offset(i) = h1 + groupSize*(i*(i+1))/2  (mod capacity)
//
// With capacity a power of two this visits every group exactly once before
// repeating, so a probe that never sees an empty slot would have scanned the
// entire table; load-factor accounting guarantees that cannot happen.
type probeSeq struct {
	mask   uint64
	offset uint64
	index  uint64
}

func makeProbeSeq(h1, mask uint64) probeSeq {
	return probeSeq{mask: mask, offset: h1 & mask}
}

func (s probeSeq) next() probeSeq {
	s.index += groupSize
	s.offset = (s.offset + s.index) & s.mask
	return s
}

func (s probeSeq) offsetAt(i uint64) uint64 {
	return (s.offset + i) & s.mask
}
