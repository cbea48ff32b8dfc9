package comparisons

import (
	"testing"

	godsmap "github.com/emirpasic/gods/maps/hashmap"

	"github.com/tavern-works/rune/alloc"
	"github.com/tavern-works/rune/hashmap"
)

const benchmarkItemCount = 1024

func setupMap(b *testing.B) *hashmap.Map[uintptr, uintptr] {
	b.Helper()
	m := hashmap.New[uintptr, uintptr](alloc.Global{})
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		if _, _, err := m.Insert(i, i); err != nil {
			b.Fatal(err)
		}
	}
	return m
}

func setupBuiltin(b *testing.B) map[uintptr]uintptr {
	b.Helper()
	m := make(map[uintptr]uintptr, benchmarkItemCount)
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		m[i] = i
	}
	return m
}

func setupGods(b *testing.B) *godsmap.Map {
	b.Helper()
	m := godsmap.New()
	for i := uintptr(0); i < benchmarkItemCount; i++ {
		m.Put(i, i)
	}
	return m
}

func BenchmarkReadMapUint(b *testing.B) {
	m := setupMap(b)
	defer m.Close()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			j, _ := m.Get(i)
			if j != i {
				b.Fail()
			}
		}
	}
}

func BenchmarkReadBuiltinUint(b *testing.B) {
	m := setupBuiltin(b)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			if m[i] != i {
				b.Fail()
			}
		}
	}
}

func BenchmarkReadGodsUint(b *testing.B) {
	m := setupGods(b)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			j, _ := m.Get(i)
			if j != i {
				b.Fail()
			}
		}
	}
}

func BenchmarkWriteMapUint(b *testing.B) {
	m := hashmap.New[uintptr, uintptr](alloc.Global{})
	defer m.Close()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			if _, _, err := m.Insert(i, i); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkWriteBuiltinUint(b *testing.B) {
	m := make(map[uintptr]uintptr)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			m[i] = i
		}
	}
}

func BenchmarkWriteGodsUint(b *testing.B) {
	m := godsmap.New()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			m.Put(i, i)
		}
	}
}

func BenchmarkWriteMapArenaUint(b *testing.B) {
	a := alloc.NewArena(alloc.ArenaConfig{})
	defer a.Close()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		m := hashmap.New[uintptr, uintptr](a)
		for i := uintptr(0); i < benchmarkItemCount; i++ {
			if _, _, err := m.Insert(i, i); err != nil {
				b.Fatal(err)
			}
		}
		m.Close()
		a.Reset()
	}
}
