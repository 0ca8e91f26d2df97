package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide/internal/types"
)

func TestScanDocumentForMatches_CallsOnMatchInOrder(t *testing.T) {
	doc := newStringDocument("cat dog cat")

	var froms []types.Position
	var allGroups [][]string
	err := ScanDocumentForMatches(ScanOptions{
		Document: doc,
		Query:    "cat",
		OnMatch: func(from, _ types.Position, groups []string) {
			froms = append(froms, from)
			allGroups = append(allGroups, groups)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []types.Position{pos(0, 0), pos(0, 8)}, froms)
	assert.Equal(t, [][]string{{"cat"}, {"cat"}}, allGroups)
}

func TestScanDocumentForMatches_RestrictedRange(t *testing.T) {
	doc := newStringDocument("x\nx\nx\nx")

	var lines []int
	err := ScanDocumentForMatches(ScanOptions{
		Document: doc,
		Query:    "x",
		Range:    &types.Range{From: pos(1, 0), To: pos(2, 0)},
		OnMatch:  func(from, _ types.Position, _ []string) { lines = append(lines, from.Line) },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, lines)
}

func TestScanDocumentForMatches_RecoversCaptureGroups(t *testing.T) {
	doc := newStringDocument("name: alice\nname: bob")

	var allGroups [][]string
	err := ScanDocumentForMatches(ScanOptions{
		Document: doc,
		Query:    `name: (\w+)`,
		IsRegex:  true,
		OnMatch:  func(_, _ types.Position, groups []string) { allGroups = append(allGroups, groups) },
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"name: alice", "alice"},
		{"name: bob", "bob"},
	}, allGroups)
}

func TestScanDocumentForMatches_NoDocument(t *testing.T) {
	err := ScanDocumentForMatches(ScanOptions{Query: "x"})
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestScanDocumentForMatches_InvalidQuery(t *testing.T) {
	doc := newStringDocument("abc")
	err := ScanDocumentForMatches(ScanOptions{Document: doc, Query: "(unclosed", IsRegex: true})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestScanDocumentForMatches_NilOnMatchIsSafe(t *testing.T) {
	doc := newStringDocument("abc")
	err := ScanDocumentForMatches(ScanOptions{Document: doc, Query: "abc"})
	assert.NoError(t, err)
}
