package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide/internal/buffer"
	"github.com/bethropolis/tide/internal/types"
)

func TestBufferDocument_ValueAndLineSeparator(t *testing.T) {
	buf := buffer.NewSliceBuffer()
	_, err := buf.Insert(types.Position{}, []byte("line one\nline two"))
	require.NoError(t, err)

	doc := NewBufferDocument(buf)
	assert.Equal(t, "line one\nline two", doc.Value())
	assert.Equal(t, "\n", doc.LineSeparator())
}

func TestBufferDocument_RevisionTracksBuffer(t *testing.T) {
	buf := buffer.NewSliceBuffer()
	doc := NewBufferDocument(buf)
	rev0 := doc.Revision()

	_, err := buf.Insert(types.Position{}, []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, rev0+1, doc.Revision())
}

func TestBufferDocument_EqualityAsMapKey(t *testing.T) {
	buf := buffer.NewSliceBuffer()
	a := NewBufferDocument(buf)
	b := NewBufferDocument(buf)

	m := map[Document]int{a: 1}
	m[b] = 2

	assert.Len(t, m, 1, "two adapters over the same buffer must compare equal as map keys")
}

func TestDocumentCache_WorksWithBufferDocument(t *testing.T) {
	buf := buffer.NewSliceBuffer()
	_, err := buf.Insert(types.Position{}, []byte("alpha\nbeta"))
	require.NoError(t, err)

	cache := NewDocumentCache()
	doc := NewBufferDocument(buf)

	_, li, _ := cache.Ensure(doc)
	assert.Equal(t, 2, li.LineCount())

	_, err = buf.Insert(types.Position{Line: 1, Col: 4}, []byte("!"))
	require.NoError(t, err)

	assert.True(t, cache.NeedsReindex(NewBufferDocument(buf)))
}
