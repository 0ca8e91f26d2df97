package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide/internal/types"
)

func mustQuery(t *testing.T, pattern string, regex, ignoreCase bool) *Query {
	t.Helper()
	var q *Query
	var err error
	if regex {
		q, err = CompileRegexQuery(pattern, ignoreCase)
	} else {
		q, err = CompileTextQuery(pattern, ignoreCase)
	}
	require.NoError(t, err)
	return q
}

func TestMatchIndexer_FindsAllMatchesInOrder(t *testing.T) {
	text := "foo bar foo baz foo"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "foo", false, false)

	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))

	require.Equal(t, 3, mi.ItemCount())
	assert.False(t, mi.Truncated())

	var got []types.Range
	mi.ForEachMatch(func(_ int, r types.Range) { got = append(got, r) })

	require.Len(t, got, 3)
	assert.Equal(t, pos(0, 0), got[0].From)
	assert.Equal(t, pos(0, 8), got[1].From)
	assert.Equal(t, pos(0, 16), got[2].From)
}

func TestMatchIndexer_CursorRelativeScanStartsNearHint(t *testing.T) {
	// Three matches; starting the scan mid-document should still recover
	// every match, just assembled from two phases (tail then head).
	text := "X X X"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "X", false, false)

	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 2))
	require.Equal(t, 3, mi.ItemCount())

	var offsets []uint32
	for k := 0; k < mi.ItemCount(); k++ {
		start, _ := mi.table.Group(k)
		offsets = append(offsets, start)
	}
	assert.Equal(t, []uint32{0, 2, 4}, offsets, "matches stay in ascending document order")
}

func TestMatchIndexer_TruncatesAtMaxResults(t *testing.T) {
	text := "a a a a a"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "a", false, false)

	mi := NewMatchIndexer(text, li, q, 2, pos(0, 0))

	assert.Equal(t, 2, mi.ItemCount())
	assert.True(t, mi.Truncated())
}

func TestMatchIndexer_ZeroWidthMatchMakesProgress(t *testing.T) {
	text := "abc"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "", false, false)

	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))

	// One zero-width match per rune position plus the end-of-string position.
	assert.Equal(t, 4, mi.ItemCount())
}

func TestMatchIndexer_IgnoreCase(t *testing.T) {
	text := "Foo foo FOO"
	li := BuildLineIndex(text, "\n")

	q := mustQuery(t, "foo", false, true)
	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))
	assert.Equal(t, 3, mi.ItemCount())

	q = mustQuery(t, "foo", false, false)
	mi = NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))
	assert.Equal(t, 1, mi.ItemCount())
}

func TestMatchIndexer_FindResultIndexNearPos_EmptyTable(t *testing.T) {
	text := "no matches here"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "xyz", false, false)

	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))
	require.Equal(t, 0, mi.ItemCount())

	idx, found := mi.FindResultIndexNearPos(0, false)
	assert.False(t, found)
	assert.Equal(t, 0, idx)

	idx, found = mi.FindResultIndexNearPos(0, true)
	assert.False(t, found)
	assert.Equal(t, 0, idx)
}

func TestMatchIndexer_FindResultIndexNearPos_ExactAndNearest(t *testing.T) {
	text := "a.a.a.a"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "a", false, false)

	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))
	require.Equal(t, 4, mi.ItemCount()) // offsets 0, 2, 4, 6

	idx, found := mi.FindResultIndexNearPos(4, false)
	require.True(t, found)
	assert.Equal(t, 2, idx)

	idx, found = mi.FindResultIndexNearPos(3, false)
	require.True(t, found)
	assert.Equal(t, 2, idx, "forward search lands on the first match after offset")

	idx, found = mi.FindResultIndexNearPos(3, true)
	require.True(t, found)
	assert.Equal(t, 1, idx, "reverse search lands on the last match before offset")

	_, found = mi.FindResultIndexNearPos(6, false)
	assert.True(t, found, "an exact hit at the last match still reports found")

	_, found = mi.FindResultIndexNearPos(100, false)
	assert.False(t, found, "nothing qualifies after the last match")
}

func TestMatchIndexer_ForEachMatchWithinRange(t *testing.T) {
	text := "x\nx\nx\nx\nx"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "x", false, false)

	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))
	require.Equal(t, 5, mi.ItemCount())

	var lines []int
	mi.ForEachMatchWithinRange(pos(1, 0), pos(3, 0), func(_ int, r types.Range) {
		lines = append(lines, r.From.Line)
	})

	assert.Equal(t, []int{1, 2, 3}, lines)
}

func TestMatchIndexer_FillPattern(t *testing.T) {
	text := "a\nb\nc\nd\ne\nf\ng\nh"
	li := BuildLineIndex(text, "\n")
	q := mustQuery(t, "c", false, false)

	mi := NewMatchIndexer(text, li, q, DefaultMaxResults, pos(0, 0))

	out := make([]byte, 4)
	linesPerBucket := mi.FillPattern(out)

	assert.Equal(t, 2, linesPerBucket)
	assert.Equal(t, byte(1), out[1], "the bucket containing line 2 ('c') is marked")
	assert.Equal(t, byte(0), out[0])
	assert.Equal(t, byte(0), out[2])
	assert.Equal(t, byte(0), out[3])
}
