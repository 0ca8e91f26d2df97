package find

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tide/internal/buffer"
	"github.com/bethropolis/tide/internal/config"
	"github.com/bethropolis/tide/internal/core/history"
	"github.com/bethropolis/tide/internal/event"
	"github.com/bethropolis/tide/internal/types"
)

func TestMain(m *testing.M) {
	if _, err := config.LoadConfig("", &config.Flags{}); err != nil {
		panic(err)
	}
	m.Run()
}

// stubEditor is a minimal EditorInterface backed by a real buffer and
// history manager, so Manager's replace/find paths run against the same
// collaborators the full core.Editor would give them.
type stubEditor struct {
	buf     buffer.Buffer
	cursor  types.Position
	events  *event.Manager
	history *history.Manager
}

func newStubEditor(content string) *stubEditor {
	buf := buffer.NewSliceBuffer()
	if content != "" {
		if _, err := buf.Insert(types.Position{}, []byte(content)); err != nil {
			panic(err)
		}
	}
	e := &stubEditor{buf: buf, events: event.NewManager()}
	e.history = history.NewManager(e, history.DefaultMaxHistory)
	return e
}

func (e *stubEditor) GetBuffer() buffer.Buffer           { return e.buf }
func (e *stubEditor) GetCursor() types.Position          { return e.cursor }
func (e *stubEditor) SetCursor(pos types.Position)       { e.cursor = pos }
func (e *stubEditor) GetEventManager() *event.Manager    { return e.events }
func (e *stubEditor) ScrollToCursor()                    {}
func (e *stubEditor) GetHistoryManager() *history.Manager { return e.history }

func TestParseSubstituteCommand(t *testing.T) {
	pattern, repl, global, err := ParseSubstituteCommand("/foo/bar/g")
	require.NoError(t, err)
	assert.Equal(t, "foo", pattern)
	assert.Equal(t, "bar", repl)
	assert.True(t, global)

	pattern, repl, global, err = ParseSubstituteCommand("/foo/bar/")
	require.NoError(t, err)
	assert.Equal(t, "foo", pattern)
	assert.Equal(t, "bar", repl)
	assert.False(t, global)

	_, _, _, err = ParseSubstituteCommand("nope")
	assert.Error(t, err)

	_, _, _, err = ParseSubstituteCommand("//bar/")
	assert.Error(t, err)
}

func TestManager_ReplaceSingle(t *testing.T) {
	e := newStubEditor("cat sat on the cat mat")
	m := NewManager(e)

	n, err := m.Replace("cat", "dog", false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	line, err := e.buf.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "dog sat on the cat mat", string(line))
	assert.True(t, e.history.CanUndo())
}

func TestManager_ReplaceGlobal(t *testing.T) {
	e := newStubEditor("cat sat on the cat mat")
	m := NewManager(e)

	n, err := m.Replace("cat", "dog", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	line, err := e.buf.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "dog sat on the dog mat", string(line))
}

func TestManager_ReplaceNoMatch(t *testing.T) {
	e := newStubEditor("hello world")
	m := NewManager(e)

	n, err := m.Replace("xyz", "abc", false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestManager_ReplaceEmptyPattern(t *testing.T) {
	e := newStubEditor("hello")
	m := NewManager(e)

	_, err := m.Replace("", "x", false)
	assert.Error(t, err)
}

func TestManager_ReplaceInvalidPattern(t *testing.T) {
	e := newStubEditor("hello")
	m := NewManager(e)

	_, err := m.Replace("(unclosed", "x", false)
	assert.Error(t, err)
}

func TestManager_HighlightAndNavigate(t *testing.T) {
	e := newStubEditor("cat dog\ncat bird")
	m := NewManager(e)

	require.NoError(t, m.HighlightMatches("cat"))
	assert.True(t, m.HasHighlights())
	assert.Len(t, m.GetHighlights(), 2)

	n, err := m.MatchCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pos, found, wrapped := m.FindNext(true)
	assert.True(t, found)
	assert.False(t, wrapped)
	assert.Equal(t, types.Position{Line: 0, Col: 0}, pos)
	assert.Equal(t, 0, m.CurrentMatchNumber())

	pos, found, wrapped = m.FindNext(true)
	assert.True(t, found)
	assert.False(t, wrapped)
	assert.Equal(t, types.Position{Line: 1, Col: 0}, pos)
	assert.Equal(t, 1, m.CurrentMatchNumber())

	info, ok, err := m.CurrentMatchInfo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"cat"}, info.Groups)
}

func TestManager_MatchedLinePattern(t *testing.T) {
	e := newStubEditor("cat\ncat\ndog")
	m := NewManager(e)
	require.NoError(t, m.HighlightMatches("cat"))

	pattern, err := m.MatchedLinePattern(3)
	require.NoError(t, err)
	assert.Len(t, pattern.Buckets, 3)
}

func TestManager_ClearHighlights(t *testing.T) {
	e := newStubEditor("cat")
	m := NewManager(e)
	require.NoError(t, m.HighlightMatches("cat"))
	assert.True(t, m.HasHighlights())

	m.ClearHighlights()
	assert.False(t, m.HasHighlights())
	assert.Equal(t, -1, m.CurrentMatchNumber())
}
