// Package hashset provides an unordered set of comparable keys over
// rawtable, with the same fallibility and iteration contract as hashmap.
package hashset

import (
	"github.com/tavern-works/rune/alloc"
	"github.com/tavern-works/rune/internal/hashkit"
	"github.com/tavern-works/rune/rawtable"
)

type slot[K comparable] struct {
	hash uint64
	key  K
}

// Set is an unordered hash set. A Set is not safe for concurrent use.
type Set[K comparable] struct {
	tbl  *rawtable.Table[slot[K]]
	hash hashkit.Func[K]
}

// Option configures a Set at construction.
type Option[K comparable] func(*config[K])

type config[K comparable] struct {
	hash hashkit.Func[K]
}

// WithHash overrides the default hash function.
func WithHash[K comparable](fn func(K) uint64) Option[K] {
	return func(c *config[K]) { c.hash = fn }
}

// New creates an empty set with no allocation.
func New[K comparable](a alloc.Allocator, opts ...Option[K]) *Set[K] {
	var cfg config[K]
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hash == nil {
		cfg.hash = hashkit.Default[K]()
	}
	s := &Set[K]{hash: cfg.hash}
	s.tbl = rawtable.New(a, func(e *slot[K]) uint64 { return e.hash })
	return s
}

// WithCapacity creates a set pre-sized to hold n keys without resizing.
func WithCapacity[K comparable](a alloc.Allocator, n int, opts ...Option[K]) (*Set[K], error) {
	s := New[K](a, opts...)
	if err := s.Reserve(n); err != nil {
		return nil, err
	}
	return s, nil
}

// FromSlice bulk-constructs a set from keys, reserving the full capacity up
// front. Duplicates collapse.
func FromSlice[K comparable](a alloc.Allocator, keys []K, opts ...Option[K]) (*Set[K], error) {
	s, err := WithCapacity(a, len(keys), opts...)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if _, err := s.Insert(k); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Set[K]) eq(hash uint64, key K) func(*slot[K]) bool {
	return func(e *slot[K]) bool { return e.hash == hash && e.key == key }
}

// Len returns the number of keys.
func (s *Set[K]) Len() int { return s.tbl.Len() }

// Cap returns the current slot capacity.
func (s *Set[K]) Cap() int { return s.tbl.Cap() }

// Insert adds key, reporting whether it was newly added.
func (s *Set[K]) Insert(key K) (added bool, err error) {
	h := s.hash(key)
	_, existed, err := s.tbl.Insert(h, s.eq(h, key), slot[K]{hash: h, key: key})
	if err != nil {
		return false, err
	}
	return !existed, nil
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	h := s.hash(key)
	return s.tbl.Find(h, s.eq(h, key)) != nil
}

// Remove deletes key, reporting whether it was present.
func (s *Set[K]) Remove(key K) bool {
	h := s.hash(key)
	_, ok := s.tbl.Remove(h, s.eq(h, key))
	return ok
}

// Reserve ensures capacity for additional more keys beyond Len.
func (s *Set[K]) Reserve(additional int) error {
	return s.tbl.Reserve(additional)
}

// All calls yield for each key until yield returns false. Order is
// unspecified. The set must not be mutated during iteration.
func (s *Set[K]) All(yield func(K) bool) {
	s.tbl.Iter(func(e *slot[K]) bool {
		return yield(e.key)
	})
}

// Clear removes every key, keeping capacity.
func (s *Set[K]) Clear() { s.tbl.Clear() }

// Close releases the set's memory back to its allocator. The set is empty
// afterwards and may be reused.
func (s *Set[K]) Close() { s.tbl.Close() }
