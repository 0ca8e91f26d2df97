package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupArray_PushAndRead(t *testing.T) {
	g := NewGroupArray()
	g.Push(10)
	g.Push(20)
	g.Push(30)
	g.Push(40)

	require.Equal(t, 2, g.ItemCount())

	start, end := g.Group(0)
	assert.Equal(t, uint32(10), start)
	assert.Equal(t, uint32(20), end)

	start, end = g.Group(1)
	assert.Equal(t, uint32(30), start)
	assert.Equal(t, uint32(40), end)
}

func TestGroupArray_CursorStartsAtSentinel(t *testing.T) {
	g := NewGroupArray()
	assert.Equal(t, -1, g.CurrentGroupNumber())

	g.Push(1)
	g.Push(2)
	assert.Equal(t, -1, g.CurrentGroupNumber(), "pushing doesn't move the cursor")
}

func TestGroupArray_NextPrevGroupIndex(t *testing.T) {
	g := NewGroupArray()
	for _, v := range []uint32{0, 1, 10, 11, 20, 21} {
		g.Push(v)
	}
	require.Equal(t, 3, g.ItemCount())

	k, ok := g.NextGroupIndex()
	require.True(t, ok)
	assert.Equal(t, 0, k)

	k, ok = g.NextGroupIndex()
	require.True(t, ok)
	assert.Equal(t, 1, k)

	k, ok = g.NextGroupIndex()
	require.True(t, ok)
	assert.Equal(t, 2, k)

	_, ok = g.NextGroupIndex()
	assert.False(t, ok, "stepping past the last group fails")
	assert.Equal(t, -1, g.CurrentGroupNumber(), "cursor resets to sentinel at the end")

	// Sentinel restart: the next NextGroupIndex call begins at group 0 again.
	k, ok = g.NextGroupIndex()
	require.True(t, ok)
	assert.Equal(t, 0, k)
}

func TestGroupArray_PrevGroupIndex_BeforeFirst(t *testing.T) {
	g := NewGroupArray()
	g.Push(0)
	g.Push(1)
	g.SetCurrentGroup(0)

	_, ok := g.PrevGroupIndex()
	assert.False(t, ok)
	assert.Equal(t, -1, g.CurrentGroupNumber())
}

func TestGroupArray_Reset(t *testing.T) {
	g := NewGroupArray()
	g.Push(1)
	g.Push(2)
	g.SetCurrentGroup(0)

	g.Reset()

	assert.Equal(t, 0, g.ItemCount())
	assert.Equal(t, -1, g.CurrentGroupNumber())
}
