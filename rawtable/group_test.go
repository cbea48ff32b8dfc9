package rawtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupOf(bytes ...uint8) group {
	var g uint64
	for i, b := range bytes {
		g |= uint64(b) << (8 * i)
	}
	return group(g)
}

func TestGroup_MatchTag(t *testing.T) {
	g := groupOf(0x11, ctrlEmpty, 0x42, ctrlDeleted, 0x42, 0x7f, 0x00, ctrlEmpty)

	m := g.matchTag(0x42)
	require.NotZero(t, m)
	assert.Equal(t, uint64(2), m.first())
	m = m.dropFirst()
	require.NotZero(t, m)
	assert.Equal(t, uint64(4), m.first())
	assert.Zero(t, m.dropFirst())

	assert.Zero(t, g.matchTag(0x33), "absent tag must not match")
}

func TestGroup_MatchTagNeverMatchesMarkers(t *testing.T) {
	g := groupOf(ctrlEmpty, ctrlDeleted, ctrlEmpty, ctrlDeleted,
		ctrlEmpty, ctrlDeleted, ctrlEmpty, ctrlDeleted)
	for tag := uint8(0); tag < 0x80; tag++ {
		require.Zero(t, g.matchTag(tag), "tag %#x matched a marker byte", tag)
	}
}

func TestGroup_MatchEmpty(t *testing.T) {
	g := groupOf(0x01, ctrlEmpty, ctrlDeleted, 0x7f, ctrlEmpty, 0x00, 0x40, ctrlDeleted)
	m := g.matchEmpty()
	assert.Equal(t, uint64(1), m.first())
	assert.Equal(t, uint64(4), m.dropFirst().first())
	assert.Zero(t, m.dropFirst().dropFirst(), "tombstones are not empty")
}

func TestGroup_MatchFree(t *testing.T) {
	g := groupOf(0x01, ctrlEmpty, ctrlDeleted, 0x7f, 0x00, 0x22, 0x33, 0x44)
	m := g.matchFree()
	assert.Equal(t, uint64(1), m.first())
	assert.Equal(t, uint64(2), m.dropFirst().first())
	assert.Zero(t, m.dropFirst().dropFirst())
}

func TestBitset_AbsentRuns(t *testing.T) {
	g := groupOf(0x01, 0x02, ctrlEmpty, 0x03, 0x04, 0x05, 0x06, 0x07)
	m := g.matchEmpty()
	assert.Equal(t, uint64(2), m.absentAtStart())
	assert.Equal(t, uint64(5), m.absentAtEnd())
}

func TestProbeSeq_VisitsEveryGroupOnce(t *testing.T) {
	const capacity = 64
	seen := make(map[uint64]bool)
	seq := makeProbeSeq(12345, capacity-1)
	for i := 0; i < capacity/groupSize; i++ {
		require.False(t, seen[seq.offset], "group offset %d visited twice", seq.offset)
		seen[seq.offset] = true
		seq = seq.next()
	}
	assert.Len(t, seen, capacity/groupSize)
}
