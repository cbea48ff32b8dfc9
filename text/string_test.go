package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavern-works/rune/alloc"
)

func TestString_FromString(t *testing.T) {
	s, err := FromString(alloc.Global{}, "hello")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 5, s.Len())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, "hello", s.String())
	assert.Equal(t, []byte("hello"), s.Bytes())
}

func TestString_FromStringRejectsInvalidUTF8(t *testing.T) {
	_, err := FromString(alloc.Global{}, "ab\xff")
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestString_InvalidInputAllocatesNothing(t *testing.T) {
	// A truncated multi-byte sequence must fail before the allocator is
	// ever consulted.
	l := alloc.NewLimit(alloc.Global{}, -1, -1)
	_, err := FromBytes(l, []byte{'h', 'i', 0xe2, 0x82}) // cut-off U+20AC
	require.ErrorIs(t, err, ErrInvalidEncoding)
	assert.Zero(t, l.LiveBytes())
	assert.Zero(t, l.Allocs())
}

func TestString_FromBytesUncheckedBypassesValidation(t *testing.T) {
	s, err := FromBytesUnchecked(alloc.Global{}, []byte("caf\xc3\xa9"))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "café", s.String())
}

func TestString_OwnsItsBytes(t *testing.T) {
	src := []byte("abc")
	s, err := FromBytes(alloc.Global{}, src)
	require.NoError(t, err)
	defer s.Close()

	src[0] = 'x'
	assert.Equal(t, "abc", s.String())
}

func TestString_AppendVariants(t *testing.T) {
	s := New(alloc.Global{})
	defer s.Close()

	require.NoError(t, s.AppendString("héllo"))
	require.NoError(t, s.AppendBytes([]byte(", ")))
	require.NoError(t, s.AppendRune('世'))
	assert.Equal(t, "héllo, 世", s.String())
}

func TestString_AppendRejectsInvalid(t *testing.T) {
	s, err := FromString(alloc.Global{}, "ok")
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.AppendString("bad\xff"), ErrInvalidEncoding)
	assert.ErrorIs(t, s.AppendBytes([]byte{0xe2, 0x82}), ErrInvalidEncoding)
	assert.ErrorIs(t, s.AppendRune(0xd800), ErrInvalidEncoding, "surrogate code point")
	assert.ErrorIs(t, s.AppendRune(0x110000), ErrInvalidEncoding, "beyond the code space")
	assert.Equal(t, "ok", s.String(), "rejected appends leave the content unchanged")
}

func TestString_Truncate(t *testing.T) {
	s, err := FromString(alloc.Global{}, "héllo")
	require.NoError(t, err)
	defer s.Close()

	s.Truncate(100)
	assert.Equal(t, "héllo", s.String(), "truncate beyond length is a no-op")

	s.Truncate(3) // after the two-byte é
	assert.Equal(t, "hé", s.String())

	s.Truncate(0)
	assert.True(t, s.IsEmpty())
}

func TestString_TruncateOffBoundaryPanics(t *testing.T) {
	s, err := FromString(alloc.Global{}, "héllo")
	require.NoError(t, err)
	defer s.Close()

	assert.Panics(t, func() { s.Truncate(2) }, "cutting é in half must panic")
	assert.Equal(t, "héllo", s.String())
}

func TestString_ReserveAvoidsReallocation(t *testing.T) {
	l := alloc.NewLimit(alloc.Global{}, -1, -1)
	s := New(l)
	defer s.Close()

	require.NoError(t, s.Reserve(64))
	allocs := l.Allocs()
	for i := 0; i < 64; i++ {
		require.NoError(t, s.AppendRune('x'))
	}
	assert.Equal(t, allocs, l.Allocs())
}

func TestString_ClearKeepsCapacity(t *testing.T) {
	s, err := FromString(alloc.Global{}, "hello")
	require.NoError(t, err)
	defer s.Close()

	capBefore := s.Cap()
	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, capBefore, s.Cap())
}

func TestString_AllocFailure(t *testing.T) {
	l := alloc.NewLimit(alloc.Global{}, 4, -1)
	_, err := FromString(l, "this does not fit in four bytes")
	require.ErrorIs(t, err, alloc.ErrAllocFailed)
	assert.Zero(t, l.LiveBytes())
}

func TestString_ArenaBacked(t *testing.T) {
	a := alloc.NewArena(alloc.ArenaConfig{SlabSize: 1 << 12})
	defer a.Close()

	s := New(a)
	for i := 0; i < 100; i++ {
		require.NoError(t, s.AppendString("ab"))
	}
	assert.Equal(t, 200, s.Len())
	s.Close()
}
