package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide/internal/types"
)

func newCursor(t *testing.T, text, query string, ignoreCase bool) (*SearchCursor, *stringDocument) {
	t.Helper()
	doc := newStringDocument(text)
	c, err := NewSearchCursor(NewDocumentCache(), SearchProperties{
		Document:   doc,
		Query:      query,
		IgnoreCase: &ignoreCase,
	})
	require.NoError(t, err)
	return c, doc
}

func TestSearchCursor_FindStepsForwardThenWraps(t *testing.T) {
	c, _ := newCursor(t, "foo\nfoo\nfoo", "foo", false)

	r1, ok, err := c.Find(false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pos(0, 0), r1.From)

	r2, ok, err := c.Find(false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pos(1, 0), r2.From)

	r3, ok, err := c.Find(false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pos(2, 0), r3.From)

	// Stepping past the last match exhausts this call...
	_, ok, err = c.Find(false)
	require.NoError(t, err)
	assert.False(t, ok)

	// ...and the next call reseeds from the document start.
	r4, ok, err := c.Find(false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pos(0, 0), r4.From)
}

func TestSearchCursor_FindReverse(t *testing.T) {
	c, _ := newCursor(t, "foo\nfoo\nfoo", "foo", false)

	r1, ok, err := c.Find(true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pos(2, 0), r1.From, "reverse seed from zero position starts at the last match")
}

func TestSearchCursor_NoMatches(t *testing.T) {
	c, _ := newCursor(t, "nothing here", "xyz", false)

	count, err := c.GetMatchCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, ok, err := c.Find(false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchCursor_InvalidQueryKeepsPrevious(t *testing.T) {
	c, _ := newCursor(t, "foo bar", "foo", false)

	count, err := c.GetMatchCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = c.SetSearchDocumentAndQuery(SearchProperties{Query: "(unclosed", IsRegex: true})
	assert.Error(t, err)

	// The cursor still has its previous, valid query.
	count, err = c.GetMatchCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSearchCursor_ReindexesAfterDocumentEdit(t *testing.T) {
	c, doc := newCursor(t, "foo", "foo", false)

	count, err := c.GetMatchCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	doc.setText("foo foo foo")
	count, err = c.GetMatchCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSearchCursor_ForEachMatch(t *testing.T) {
	c, _ := newCursor(t, "a1 a2 a3", `a\d`, false)
	require.NoError(t, c.SetSearchDocumentAndQuery(SearchProperties{Query: `a\d`, IsRegex: true}))

	var ranges []types.Range
	err := c.ForEachMatch(func(_ int, r types.Range) { ranges = append(ranges, r) })
	require.NoError(t, err)
	assert.Len(t, ranges, 3)
}

func TestSearchCursor_GetFullInfoForCurrentMatch_CapturesGroups(t *testing.T) {
	c, _ := newCursor(t, "key=value", "", false)
	require.NoError(t, c.SetSearchDocumentAndQuery(SearchProperties{Query: `(\w+)=(\w+)`, IsRegex: true}))

	_, ok, err := c.Find(false)
	require.NoError(t, err)
	require.True(t, ok)

	info, ok, err := c.GetFullInfoForCurrentMatch()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, info.Groups, 3)
	assert.Equal(t, "key=value", info.Groups[0])
	assert.Equal(t, "key", info.Groups[1])
	assert.Equal(t, "value", info.Groups[2])
}

func TestSearchCursor_GetFullInfoForCurrentMatch_NoCurrentMatch(t *testing.T) {
	c, _ := newCursor(t, "abc", "abc", false)

	_, ok, err := c.GetFullInfoForCurrentMatch()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchCursor_CreateMatchedLinePattern(t *testing.T) {
	c, _ := newCursor(t, "x\ny\nx\ny", "x", false)

	lp, err := c.CreateMatchedLinePattern(2)
	require.NoError(t, err)
	assert.Len(t, lp.Buckets, 2)
	assert.Equal(t, byte(1), lp.Buckets[0])
}

func TestSearchCursor_InvalidQueryErrorOnCreate(t *testing.T) {
	doc := newStringDocument("abc")
	_, err := NewSearchCursor(NewDocumentCache(), SearchProperties{Document: doc, Query: "(unclosed", IsRegex: true})
	assert.Error(t, err)
}
