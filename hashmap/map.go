// Package hashmap provides the keyed-container facade over rawtable: an
// unordered map from comparable keys to values, every growth path fallible.
//
// Duplicate-key policy is explicit at this layer: Insert replaces, InsertNew
// rejects with ErrKeyExists, Update requires presence. Iteration order is
// the table's physical slot order, unspecified and unstable across
// mutation.
package hashmap

import (
	"errors"

	"github.com/tavern-works/rune/alloc"
	"github.com/tavern-works/rune/internal/hashkit"
	"github.com/tavern-works/rune/rawtable"
)

var (
	// ErrKeyExists is returned by InsertNew for a key already present.
	ErrKeyExists = errors.New("hashmap: key already exists")

	// ErrNotFound is returned by Update for a key not present.
	ErrNotFound = errors.New("hashmap: key not found")
)

// Pair is one key/value entry, the unit of bulk construction and of
// serialization-driven iteration.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// slot is the raw table payload. The hash is stored so resizing never
// re-hashes keys.
type slot[K comparable, V any] struct {
	hash  uint64
	key   K
	value V
}

// Map is an unordered hash map. A Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	tbl  *rawtable.Table[slot[K, V]]
	hash hashkit.Func[K]
}

// Option configures a Map at construction.
type Option[K comparable] func(*config[K])

type config[K comparable] struct {
	hash hashkit.Func[K]
}

// WithHash overrides the default hash function. The function must be
// deterministic for the lifetime of the container.
func WithHash[K comparable](fn func(K) uint64) Option[K] {
	return func(c *config[K]) { c.hash = fn }
}

// New creates an empty map with no allocation.
func New[K comparable, V any](a alloc.Allocator, opts ...Option[K]) *Map[K, V] {
	var cfg config[K]
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hash == nil {
		cfg.hash = hashkit.Default[K]()
	}
	m := &Map[K, V]{hash: cfg.hash}
	m.tbl = rawtable.New(a, func(s *slot[K, V]) uint64 { return s.hash })
	return m
}

// WithCapacity creates a map pre-sized to hold n entries without resizing.
func WithCapacity[K comparable, V any](a alloc.Allocator, n int, opts ...Option[K]) (*Map[K, V], error) {
	m := New[K, V](a, opts...)
	if err := m.Reserve(n); err != nil {
		return nil, err
	}
	return m, nil
}

// FromPairs bulk-constructs a map from pairs, reserving the full capacity
// up front. Later pairs win on duplicate keys.
func FromPairs[K comparable, V any](a alloc.Allocator, pairs []Pair[K, V], opts ...Option[K]) (*Map[K, V], error) {
	m, err := WithCapacity[K, V](a, len(pairs), opts...)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if _, _, err := m.Insert(p.Key, p.Value); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

func (m *Map[K, V]) eq(hash uint64, key K) func(*slot[K, V]) bool {
	return func(s *slot[K, V]) bool { return s.hash == hash && s.key == key }
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.tbl.Len() }

// Cap returns the current slot capacity.
func (m *Map[K, V]) Cap() int { return m.tbl.Cap() }

// Insert adds key/value, replacing an existing entry. It returns the
// previous value when one was replaced.
func (m *Map[K, V]) Insert(key K, value V) (prev V, replaced bool, err error) {
	h := m.hash(key)
	s, existed, err := m.tbl.Insert(h, m.eq(h, key), slot[K, V]{hash: h, key: key, value: value})
	if err != nil {
		return prev, false, err
	}
	if existed {
		prev = s.value
		s.value = value
		return prev, true, nil
	}
	return prev, false, nil
}

// InsertNew adds key/value, failing with ErrKeyExists when the key is
// already present (the existing entry is left untouched).
func (m *Map[K, V]) InsertNew(key K, value V) error {
	h := m.hash(key)
	_, existed, err := m.tbl.Insert(h, m.eq(h, key), slot[K, V]{hash: h, key: key, value: value})
	if err != nil {
		return err
	}
	if existed {
		return ErrKeyExists
	}
	return nil
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	h := m.hash(key)
	if s := m.tbl.Find(h, m.eq(h, key)); s != nil {
		return s.value, true
	}
	var zero V
	return zero, false
}

// At returns a pointer to the value stored for key, or nil. The pointer is
// valid until the next mutating operation.
func (m *Map[K, V]) At(key K) *V {
	h := m.hash(key)
	if s := m.tbl.Find(h, m.eq(h, key)); s != nil {
		return &s.value
	}
	return nil
}

// Update replaces the value of an existing key, failing with ErrNotFound
// when the key is absent. It never allocates.
func (m *Map[K, V]) Update(key K, value V) error {
	p := m.At(key)
	if p == nil {
		return ErrNotFound
	}
	*p = value
	return nil
}

// Remove deletes key, returning the removed value.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	h := m.hash(key)
	s, ok := m.tbl.Remove(h, m.eq(h, key))
	return s.value, ok
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	h := m.hash(key)
	return m.tbl.Find(h, m.eq(h, key)) != nil
}

// Reserve ensures capacity for additional more entries beyond Len.
func (m *Map[K, V]) Reserve(additional int) error {
	return m.tbl.Reserve(additional)
}

// All calls yield for each entry until yield returns false. Order is
// unspecified. The map must not be mutated during iteration.
func (m *Map[K, V]) All(yield func(K, V) bool) {
	m.tbl.Iter(func(s *slot[K, V]) bool {
		return yield(s.key, s.value)
	})
}

// Keys calls yield for each key until yield returns false.
func (m *Map[K, V]) Keys(yield func(K) bool) {
	m.tbl.Iter(func(s *slot[K, V]) bool {
		return yield(s.key)
	})
}

// Values calls yield for each value until yield returns false.
func (m *Map[K, V]) Values(yield func(V) bool) {
	m.tbl.Iter(func(s *slot[K, V]) bool {
		return yield(s.value)
	})
}

// Clear removes every entry, keeping capacity.
func (m *Map[K, V]) Clear() { m.tbl.Clear() }

// Close releases the map's memory back to its allocator. The map is empty
// afterwards and may be reused.
func (m *Map[K, V]) Close() { m.tbl.Close() }
