package rawtable

import (
	"github.com/tavern-works/rune/alloc"
	"github.com/tavern-works/rune/internal/mem"
)

const (
	// minCapacity bounds the number of resizes for small tables. Capacity
	// is always zero or a power of two >= this.
	minCapacity = 8

	// Load factor 7/8: resize triggers before full slots exceed
	// capacity*maxLoadNum/maxLoadDen.
	maxLoadNum = 7
	maxLoadDen = 8
)

// Table is an open-addressing hash table over fixed-size slots of type T.
// It stores whatever payload the facade chooses (key, key/value, stored
// hash) and knows nothing about keys itself: lookups take the key's hash
// and an equality predicate, and rehashing recovers each slot's hash through
// the hashOf function supplied at construction.
//
// Duplicate policy belongs to the caller: Insert reports an existing match
// without modifying it, and the facade decides whether to replace, reject,
// or merge.
//
// A Table is not safe for concurrent use.
type Table[T any] struct {
	slots mem.Slice[T]
	ctrls mem.Slice[uint8] // capacity + groupSize bytes, first group mirrored at the end

	// mask is capacity-1. Meaningful only while capacity > 0.
	mask uint64

	// len counts full slots.
	len int

	// growthLeft is the insertion budget before a resize or rehash is
	// forced. Tombstones are excluded from the budget so that churn cannot
	// degrade probe sequences without eventually triggering a rehash.
	growthLeft int

	hashOf func(*T) uint64
	a      alloc.Allocator
}

// New creates an empty table with no allocation. hashOf must return the
// same hash for a slot that was used to insert it.
func New[T any](a alloc.Allocator, hashOf func(*T) uint64) *Table[T] {
	return &Table[T]{hashOf: hashOf, a: a}
}

// WithCapacity creates a table pre-sized to hold n entries without
// resizing.
func WithCapacity[T any](a alloc.Allocator, hashOf func(*T) uint64, n int) (*Table[T], error) {
	t := New(a, hashOf)
	if err := t.Reserve(n); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the number of full slots.
func (t *Table[T]) Len() int { return t.len }

// Cap returns the current slot capacity (zero or a power of two).
func (t *Table[T]) Cap() int { return t.slots.Cap() }

func (t *Table[T]) capacity() uint64 { return uint64(t.slots.Cap()) }

// Find returns the slot whose stored hash tag matches hash and for which eq
// reports true, or nil. The pointer is valid until the next mutating
// operation.
func (t *Table[T]) Find(hash uint64, eq func(*T) bool) *T {
	if t.capacity() == 0 {
		return nil
	}
	ctrls := t.ctrls.Elems()
	slots := t.slots.Elems()
	tag := h2(hash)
	for seq := makeProbeSeq(h1(hash), t.mask); ; seq = seq.next() {
		g := loadGroup(ctrls, seq.offset)
		for match := g.matchTag(tag); match != 0; match = match.dropFirst() {
			i := seq.offsetAt(match.first())
			if eq(&slots[i]) {
				return &slots[i]
			}
		}
		// Tombstones keep the probe going; only a genuinely empty slot
		// proves the key is absent.
		if g.matchEmpty() != 0 {
			return nil
		}
	}
}

// Insert looks up hash/eq and, when no match exists, inserts value into the
// first free slot along the probe sequence. It returns the slot pointer and
// whether it held a pre-existing match; an existing slot is returned
// unmodified so the caller can apply its duplicate-key policy. Growth
// failures surface the allocator's error and leave the table unchanged.
func (t *Table[T]) Insert(hash uint64, eq func(*T) bool, value T) (*T, bool, error) {
	if p := t.Find(hash, eq); p != nil {
		return p, true, nil
	}
	if t.capacity() == 0 {
		if err := t.resize(minCapacity); err != nil {
			return nil, false, err
		}
	}
	i := t.findInsertSlot(hash)
	if t.ctrls.Elems()[i] == ctrlEmpty && t.growthLeft == 0 {
		// Out of insertion budget before an empty slot could be claimed:
		// grow (or rehash at the same capacity when tombstone debt alone is
		// the problem) and reprobe.
		if err := t.growForInsert(); err != nil {
			return nil, false, err
		}
		i = t.findInsertSlot(hash)
	}
	if t.ctrls.Elems()[i] == ctrlEmpty {
		t.growthLeft--
	}
	t.setCtrl(i, h2(hash))
	slots := t.slots.Elems()
	slots[i] = value
	t.len++
	return &slots[i], false, nil
}

// Remove deletes the matching slot and returns its value. The slot is
// tombstoned unless its neighborhood proves no probe sequence could have
// passed through a full group containing it, in which case it reverts to
// empty and returns its insertion budget.
func (t *Table[T]) Remove(hash uint64, eq func(*T) bool) (T, bool) {
	var zero T
	if t.capacity() == 0 {
		return zero, false
	}
	ctrls := t.ctrls.Elems()
	slots := t.slots.Elems()
	tag := h2(hash)
	for seq := makeProbeSeq(h1(hash), t.mask); ; seq = seq.next() {
		g := loadGroup(ctrls, seq.offset)
		for match := g.matchTag(tag); match != 0; match = match.dropFirst() {
			i := seq.offsetAt(match.first())
			if !eq(&slots[i]) {
				continue
			}
			value := slots[i]
			slots[i] = zero
			t.len--
			if t.wasNeverFull(i) {
				t.setCtrl(i, ctrlEmpty)
				t.growthLeft++
			} else {
				t.setCtrl(i, ctrlDeleted)
			}
			return value, true
		}
		if g.matchEmpty() != 0 {
			return zero, false
		}
	}
}

// Reserve ensures the table can hold len+additional entries without further
// allocation. It fails with alloc.ErrCapacityOverflow before touching the
// allocator when the required capacity is not representable.
func (t *Table[T]) Reserve(additional int) error {
	need, ok := alloc.AddOverflowSafe(t.len, additional)
	if !ok {
		return alloc.ErrCapacityOverflow
	}
	if need <= t.len+t.growthLeft {
		return nil
	}
	newCap, err := capacityFor(need)
	if err != nil {
		return err
	}
	if cur := int(t.capacity()); newCap < cur {
		// Enough physical slots already; a same-size rehash reclaims the
		// tombstone debt that ate the budget.
		newCap = cur
	}
	return t.resize(uint64(newCap))
}

// Clear removes every entry, keeping the allocated capacity.
func (t *Table[T]) Clear() {
	if t.capacity() == 0 {
		return
	}
	ctrls := t.ctrls.Elems()
	for i := range ctrls {
		ctrls[i] = ctrlEmpty
	}
	clear(t.slots.Elems())
	t.len = 0
	t.growthLeft = maxLoad(t.capacity())
}

// Close releases the table's memory back to its allocator. The table is
// empty afterwards and may be reused, which re-allocates.
func (t *Table[T]) Close() {
	mem.FreeSlice(t.a, t.slots)
	mem.FreeSlice(t.a, t.ctrls)
	t.slots = mem.Slice[T]{}
	t.ctrls = mem.Slice[uint8]{}
	t.mask = 0
	t.len = 0
	t.growthLeft = 0
}

// Iter calls yield for every full slot in physical slot order. The order is
// unspecified and not stable across mutation. The table must not be mutated
// during iteration.
func (t *Table[T]) Iter(yield func(*T) bool) {
	ctrls := t.ctrls.Elems()
	slots := t.slots.Elems()
	for i := range t.slots.Cap() {
		if isFull(ctrls[i]) && !yield(&slots[i]) {
			return
		}
	}
}

// setCtrl writes a control byte and maintains the mirrored first group at
// the tail of the control array.
func (t *Table[T]) setCtrl(i uint64, c uint8) {
	ctrls := t.ctrls.Elems()
	ctrls[i] = c
	ctrls[((i-groupSize)&t.mask)+groupSize] = c
}

// findInsertSlot returns the first empty or tombstoned slot along hash's
// probe sequence. Load-factor accounting guarantees one exists.
func (t *Table[T]) findInsertSlot(hash uint64) uint64 {
	ctrls := t.ctrls.Elems()
	for seq := makeProbeSeq(h1(hash), t.mask); ; seq = seq.next() {
		g := loadGroup(ctrls, seq.offset)
		if match := g.matchFree(); match != 0 {
			return seq.offsetAt(match.first())
		}
	}
}

// wasNeverFull reports whether slot i cannot have been part of a full
// group, looking at the empty slots in the groups overlapping i. When true,
// converting i straight to empty cannot cut short any probe sequence.
func (t *Table[T]) wasNeverFull(i uint64) bool {
	if t.capacity() <= groupSize {
		return true
	}
	ctrls := t.ctrls.Elems()
	before := (i - groupSize) & t.mask
	emptyAfter := loadGroup(ctrls, i).matchEmpty()
	emptyBefore := loadGroup(ctrls, before).matchEmpty()
	return emptyBefore != 0 && emptyAfter != 0 &&
		emptyBefore.absentAtEnd()+emptyAfter.absentAtStart() < groupSize
}

// growForInsert picks the capacity for a forced resize: double when the
// table is genuinely loaded, same-size when tombstones are what exhausted
// the budget.
func (t *Table[T]) growForInsert() error {
	cap := t.capacity()
	if uint64(t.len) < cap/2 {
		return t.resize(cap)
	}
	doubled, ok := alloc.MulOverflowSafe(int(cap), 2)
	if !ok {
		return alloc.ErrCapacityOverflow
	}
	return t.resize(uint64(doubled))
}

// resize reallocates the slot and control arrays at newCap (a power of two
// >= minCapacity) and reinserts every full slot. Tombstones are dropped,
// never carried over. Allocation failure leaves the table untouched.
func (t *Table[T]) resize(newCap uint64) error {
	newSlots, err := mem.AllocSlice[T](t.a, int(newCap))
	if err != nil {
		return err
	}
	newCtrls, err := mem.AllocSlice[uint8](t.a, int(newCap)+groupSize)
	if err != nil {
		mem.FreeSlice(t.a, newSlots)
		return err
	}
	for i := range newCtrls.Elems() {
		newCtrls.Elems()[i] = ctrlEmpty
	}

	oldSlots, oldCtrls, oldCap := t.slots, t.ctrls, t.capacity()
	t.slots = newSlots
	t.ctrls = newCtrls
	t.mask = newCap - 1

	for i := uint64(0); i < oldCap; i++ {
		if !isFull(oldCtrls.Elems()[i]) {
			continue
		}
		s := &oldSlots.Elems()[i]
		h := t.hashOf(s)
		j := t.findInsertSlot(h)
		t.setCtrl(j, h2(h))
		t.slots.Elems()[j] = *s
	}
	t.growthLeft = maxLoad(newCap) - t.len

	if oldCap > 0 {
		mem.FreeSlice(t.a, oldSlots)
		mem.FreeSlice(t.a, oldCtrls)
	}
	return nil
}

// maxLoad returns the full-slot budget for a capacity: capacity*7/8, exact
// because capacity is a power of two >= 8.
func maxLoad(capacity uint64) int {
	return int(capacity / maxLoadDen * maxLoadNum)
}

// capacityFor returns the smallest valid capacity whose load budget covers
// n entries.
func capacityFor(n int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	m, ok := alloc.MulOverflowSafe(n, maxLoadDen)
	if !ok {
		return 0, alloc.ErrCapacityOverflow
	}
	c, ok := alloc.NextPow2((m + maxLoadNum - 1) / maxLoadNum)
	if !ok {
		return 0, alloc.ErrCapacityOverflow
	}
	if c < minCapacity {
		c = minCapacity
	}
	return c, nil
}
