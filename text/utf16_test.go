package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavern-works/rune/alloc"
)

func utf16leBytes(units ...uint16) []byte {
	b := make([]byte, 0, len(units)*2)
	for _, u := range units {
		b = append(b, byte(u), byte(u>>8))
	}
	return b
}

func TestUTF16_RoundTrip(t *testing.T) {
	s, err := FromString(alloc.Global{}, "héllo, 世界")
	require.NoError(t, err)
	defer s.Close()

	encoded, err := s.UTF16LE()
	require.NoError(t, err)

	back, err := FromUTF16LE(alloc.Global{}, encoded)
	require.NoError(t, err)
	defer back.Close()
	assert.Equal(t, s.String(), back.String())
}

func TestUTF16_SurrogatePair(t *testing.T) {
	// U+1F600 encodes as the pair D83D DE00.
	s, err := FromUTF16LE(alloc.Global{}, utf16leBytes(0xd83d, 0xde00))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "\U0001F600", s.String())
}

func TestUTF16_OddLength(t *testing.T) {
	_, err := FromUTF16LE(alloc.Global{}, []byte{0x68, 0x00, 0x69})
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestUTF16_UnpairedSurrogates(t *testing.T) {
	cases := map[string][]byte{
		"lone high at end":      utf16leBytes(0x0068, 0xd83d),
		"high without low":      utf16leBytes(0xd83d, 0x0068),
		"high followed by high": utf16leBytes(0xd83d, 0xd83d),
		"lone low":              utf16leBytes(0xde00),
		"low before its high":   utf16leBytes(0xde00, 0xd83d),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			l := alloc.NewLimit(alloc.Global{}, -1, -1)
			_, err := FromUTF16LE(l, input)
			require.ErrorIs(t, err, ErrInvalidEncoding)
			assert.Zero(t, l.Allocs(), "rejected input must not allocate")
		})
	}
}

func TestUTF16_EmptyInput(t *testing.T) {
	s, err := FromUTF16LE(alloc.Global{}, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.True(t, s.IsEmpty())

	encoded, err := s.UTF16LE()
	require.NoError(t, err)
	assert.Empty(t, encoded)
}
