package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide/internal/buffer"
	"github.com/bethropolis/tide/internal/config"
	"github.com/bethropolis/tide/internal/search"
	"github.com/bethropolis/tide/internal/types"
)

func TestMain(m *testing.M) {
	if _, err := config.LoadConfig("", &config.Flags{}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestEditor(t *testing.T, content string) *Editor {
	t.Helper()
	buf := buffer.NewSliceBuffer()
	if content != "" {
		_, err := buf.Insert(types.Position{}, []byte(content))
		require.NoError(t, err)
	}
	return NewEditor(buf, search.NewDocumentCache())
}

func TestEditor_InsertAndUndoRedo(t *testing.T) {
	e := newTestEditor(t, "")

	require.NoError(t, e.InsertRune('h'))
	require.NoError(t, e.InsertRune('i'))
	assert.Equal(t, []byte("hi"), e.GetBuffer().Bytes())
	assert.True(t, e.GetHistoryManager().CanUndo())

	ok, err := e.GetHistoryManager().Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("h"), e.GetBuffer().Bytes())

	ok, err = e.GetHistoryManager().Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("hi"), e.GetBuffer().Bytes())
	assert.False(t, e.GetHistoryManager().CanRedo())
}

func TestEditor_DeleteBackward(t *testing.T) {
	e := newTestEditor(t, "hi")
	e.SetCursor(types.Position{Line: 0, Col: 2})

	require.NoError(t, e.DeleteBackward())
	assert.Equal(t, []byte("h"), e.GetBuffer().Bytes())
	assert.Equal(t, types.Position{Line: 0, Col: 1}, e.GetCursor())
}

func TestEditor_SelectionYankAndPaste(t *testing.T) {
	e := newTestEditor(t, "hello world")

	e.SetCursor(types.Position{Line: 0, Col: 0})
	e.StartOrUpdateSelection()
	e.MoveCursor(0, 5)
	assert.True(t, e.HasSelection())

	start, end, ok := e.GetSelection()
	require.True(t, ok)
	assert.Equal(t, types.Position{Line: 0, Col: 0}, start)
	assert.Equal(t, types.Position{Line: 0, Col: 5}, end)

	yanked, err := e.YankSelection()
	require.NoError(t, err)
	assert.True(t, yanked)
	assert.False(t, e.HasSelection())

	e.SetCursor(types.Position{Line: 0, Col: 11})
	pasted, err := e.Paste()
	require.NoError(t, err)
	assert.True(t, pasted)
	assert.Equal(t, []byte("hello worldhello"), e.GetBuffer().Bytes())
}

func TestEditor_FindAndReplaceIntegration(t *testing.T) {
	e := newTestEditor(t, "cat dog\ncat bird")

	pos, found := e.Find("cat", types.Position{}, true)
	require.True(t, found)
	assert.Equal(t, types.Position{Line: 0, Col: 0}, pos)
	assert.Equal(t, 0, e.CurrentMatchNumber())

	count, err := e.MatchCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	info, ok, err := e.CurrentMatchInfo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"cat"}, info.Groups)

	nextPos, advanced, wrapped := e.FindNextMatch(true)
	assert.True(t, advanced)
	assert.False(t, wrapped)
	assert.Equal(t, types.Position{Line: 1, Col: 0}, nextPos)

	pattern, err := e.MatchedLinePattern(2)
	require.NoError(t, err)
	assert.Len(t, pattern.Buckets, 2)

	n, err := e.Replace("cat", "dog", false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []byte("cat dog\ndog bird"), e.GetBuffer().Bytes())
}
