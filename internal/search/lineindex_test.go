package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLineIndex_Basic(t *testing.T) {
	li := BuildLineIndex("ab\ncde\nf", "\n")

	require.Equal(t, 3, li.LineCount())
	assert.Equal(t, len("ab\ncde\nf"), li.TotalChars())
}

func TestLineIndex_OffsetOf(t *testing.T) {
	li := BuildLineIndex("ab\ncde\nf", "\n")

	assert.Equal(t, 0, li.OffsetOf(pos(0, 0)))
	assert.Equal(t, 2, li.OffsetOf(pos(0, 2)))
	assert.Equal(t, 3, li.OffsetOf(pos(1, 0)))
	assert.Equal(t, 7, li.OffsetOf(pos(2, 0)))
}

func TestLineIndex_PosFromOffset_RoundTrip(t *testing.T) {
	text := "ab\ncde\nf"
	li := BuildLineIndex(text, "\n")

	for offset := 0; offset <= li.TotalChars(); offset++ {
		p := li.PosFromOffset(0, offset)
		assert.Equal(t, offset, li.OffsetOf(p), "offset %d round-trips", offset)
	}
}

func TestLineIndex_PosFromOffset_MatchesBinary(t *testing.T) {
	text := "one\ntwo\nthree\n\nfive"
	li := BuildLineIndex(text, "\n")

	for offset := 0; offset <= li.TotalChars(); offset++ {
		assert.Equal(t, li.PosFromOffsetBinary(offset), li.PosFromOffset(0, offset))
	}
}

func TestLineIndex_PosFromOffset_HintOvershoot(t *testing.T) {
	text := "aaaa\nbbbb\ncccc\ndddd"
	li := BuildLineIndex(text, "\n")

	// Hint far past the offset; the walk-back branch must correct it.
	p := li.PosFromOffset(3, 1)
	assert.Equal(t, pos(0, 1), p)
}

func TestLineIndex_EmptyDocument(t *testing.T) {
	li := BuildLineIndex("", "\n")

	assert.Equal(t, 1, li.LineCount())
	assert.Equal(t, 0, li.TotalChars())
	assert.Equal(t, pos(0, 0), li.PosFromOffset(0, 0))
}

func TestLineIndex_CRLFSeparator(t *testing.T) {
	li := BuildLineIndex("ab\r\ncd", "\r\n")

	require.Equal(t, 2, li.LineCount())
	assert.Equal(t, 4, li.OffsetOf(pos(1, 0)))
}
