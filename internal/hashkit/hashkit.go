// Package hashkit supplies the default key-hashing functions used by the
// hashmap and hashset facades.
package hashkit

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Func hashes a key to 64 bits. A facade uses one Func per container
// instance, seeded at construction so probe sequences differ between
// instances.
type Func[K comparable] func(K) uint64

// Default returns a randomly seeded hash function for K. String keys take
// an xxhash fast path; every other comparable type goes through the host's
// seeded comparable hash.
func Default[K comparable]() Func[K] {
	var zero K
	if _, ok := any(zero).(string); ok {
		seed := rand.Uint64()
		return func(k K) uint64 {
			var d xxhash.Digest
			d.ResetWithSeed(seed)
			_, _ = d.WriteString(any(k).(string))
			return d.Sum64()
		}
	}
	seed := maphash.MakeSeed()
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}
