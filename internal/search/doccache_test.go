package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCache_EnsureBuildsAndReuses(t *testing.T) {
	c := NewDocumentCache()
	doc := newStringDocument("hello\nworld")

	assert.True(t, c.NeedsReindex(doc))

	text, li, rev := c.Ensure(doc)
	assert.Equal(t, "hello\nworld", text)
	assert.Equal(t, 2, li.LineCount())
	assert.Equal(t, uint64(1), rev)

	assert.False(t, c.NeedsReindex(doc))

	text2, li2, rev2 := c.Ensure(doc)
	assert.Same(t, li, li2, "unchanged revision returns the cached LineIndex")
	assert.Equal(t, text, text2)
	assert.Equal(t, rev, rev2)
}

func TestDocumentCache_ReindexesOnRevisionBump(t *testing.T) {
	c := NewDocumentCache()
	doc := newStringDocument("one line")

	_, li1, _ := c.Ensure(doc)

	doc.setText("one line\ntwo lines now")
	assert.True(t, c.NeedsReindex(doc))

	text2, li2, rev2 := c.Ensure(doc)
	assert.Equal(t, "one line\ntwo lines now", text2)
	assert.Equal(t, uint64(2), rev2)
	assert.NotSame(t, li1, li2)
	assert.Equal(t, 2, li2.LineCount())
}

func TestDocumentCache_InvalidateDropsEntry(t *testing.T) {
	c := NewDocumentCache()
	doc := newStringDocument("x")

	c.Ensure(doc)
	require.False(t, c.NeedsReindex(doc))

	c.Invalidate(doc)
	assert.True(t, c.NeedsReindex(doc))
}

func TestDocumentCache_SeparateDocumentsDoNotCollide(t *testing.T) {
	c := NewDocumentCache()
	a := newStringDocument("aaa")
	b := newStringDocument("bbb\nbbb")

	_, liA, _ := c.Ensure(a)
	_, liB, _ := c.Ensure(b)

	assert.Equal(t, 1, liA.LineCount())
	assert.Equal(t, 2, liB.LineCount())
}
