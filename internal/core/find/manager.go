package find

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bethropolis/tide/internal/buffer"
	"github.com/bethropolis/tide/internal/config"
	"github.com/bethropolis/tide/internal/core/history"
	"github.com/bethropolis/tide/internal/event"
	"github.com/bethropolis/tide/internal/logger"
	"github.com/bethropolis/tide/internal/search"
	"github.com/bethropolis/tide/internal/types"
	"github.com/bethropolis/tide/internal/utils"
)

// EditorInterface defines methods the find manager needs from the editor.
type EditorInterface interface {
	GetBuffer() buffer.Buffer
	GetCursor() types.Position
	SetCursor(types.Position)
	GetEventManager() *event.Manager
	ScrollToCursor()
	GetHistoryManager() *history.Manager
}

// Manager handles find, replace, and search highlighting, backed by the
// search package's SearchCursor for traversal and a process-wide
// DocumentCache shared across every buffer the editor opens.
type Manager struct {
	editor EditorInterface
	cache  *search.DocumentCache

	mutex            sync.RWMutex
	cursor           *search.SearchCursor
	lastSearchTerm   string
	searchHighlights []types.HighlightRegion
}

// NewManager creates a find manager backed by its own DocumentCache.
// Callers that want the cache shared across editors should use
// NewManagerWithCache instead.
func NewManager(editor EditorInterface) *Manager {
	return NewManagerWithCache(editor, search.NewDocumentCache())
}

// NewManagerWithCache creates a find manager backed by an
// externally-owned DocumentCache, so multiple buffers opened by the
// same process reuse one cache.
func NewManagerWithCache(editor EditorInterface, cache *search.DocumentCache) *Manager {
	return &Manager{editor: editor, cache: cache}
}

func (m *Manager) document() search.BufferDocument {
	return search.NewBufferDocument(m.editor.GetBuffer())
}

// HighlightMatches compiles term as a regex search and stores every
// match in the buffer as a highlight region. An empty term clears
// highlighting.
func (m *Manager) HighlightMatches(term string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if term == "" {
		m.lastSearchTerm = ""
		m.cursor = nil
		m.searchHighlights = nil
		return nil
	}

	searchCfg := config.Get().Search
	ignoreCase := searchCfg.IgnoreCase
	maxResults := searchCfg.MaxResults

	cur, err := search.NewSearchCursor(m.cache, search.SearchProperties{
		Document:   m.document(),
		Query:      term,
		IsRegex:    true,
		IgnoreCase: &ignoreCase,
		MaxResults: &maxResults,
		Position:   &types.Position{},
	})
	if err != nil {
		logger.Warnf("HighlightMatches: invalid pattern %q: %v", term, err)
		return fmt.Errorf("invalid search pattern: %w", err)
	}

	highlights := make([]types.HighlightRegion, 0)
	if err := cur.ForEachMatch(func(_ int, rng types.Range) {
		highlights = append(highlights, types.HighlightRegion{
			Start: rng.From,
			End:   rng.To,
			Type:  types.HighlightSearch,
		})
	}); err != nil {
		return err
	}

	m.lastSearchTerm = term
	m.cursor = cur
	m.searchHighlights = highlights

	logger.DebugTagf("find", "HighlightMatches: %d matches for %q", len(highlights), term)
	return nil
}

// FindNext moves to the next (or, if forward is false, previous) match
// relative to the current match, wrapping around the document edges;
// the third result reports whether this call wrapped. When no match is
// current (a fresh search), the search is seeded from the editor's
// cursor position, so it starts near wherever the cursor now is.
func (m *Manager) FindNext(forward bool) (types.Position, bool, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.cursor == nil || m.lastSearchTerm == "" {
		return types.Position{}, false, false
	}

	prevNum := m.cursor.GetCurrentMatchNumber()
	if prevNum < 0 {
		// No current match (fresh search, or the previous Find exhausted
		// the result set): seed the cursor from the editor's live
		// position. Once a match is current, leave atOccurrence alone so
		// Find steps to the next/previous result instead of re-locating
		// the one it's already on.
		pos := m.editor.GetCursor()
		if err := m.cursor.SetSearchDocumentAndQuery(search.SearchProperties{
			Document: m.document(),
			Position: &pos,
		}); err != nil {
			return types.Position{}, false, false
		}
	}

	rng, found, err := m.cursor.Find(!forward)
	if err == nil && !found && prevNum >= 0 {
		// Stepping past the last (or first) match cleared the cursor's
		// position; the next Find reseeds from the opposite boundary.
		rng, found, err = m.cursor.Find(!forward)
	}
	if err != nil || !found {
		return types.Position{}, false, false
	}

	newNum := m.cursor.GetCurrentMatchNumber()
	wrapped := prevNum >= 0 && ((forward && newNum <= prevNum) || (!forward && newNum >= prevNum))

	m.editor.SetCursor(rng.From)
	m.editor.ScrollToCursor()

	return rng.From, true, wrapped
}

// ClearHighlights removes all search highlight regions.
func (m *Manager) ClearHighlights() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if len(m.searchHighlights) > 0 {
		logger.DebugTagf("find", "ClearHighlights: dropping %d highlights", len(m.searchHighlights))
	}
	m.searchHighlights = nil
	m.cursor = nil
	m.lastSearchTerm = ""
}

// HasHighlights reports whether there is an active set of search highlights.
func (m *Manager) HasHighlights() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.searchHighlights) > 0
}

// GetHighlights returns a copy of the current search highlight regions.
func (m *Manager) GetHighlights() []types.HighlightRegion {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]types.HighlightRegion, len(m.searchHighlights))
	copy(out, m.searchHighlights)
	return out
}

// MatchCount returns the number of matches for the active search, 0 if
// there is none.
func (m *Manager) MatchCount() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.cursor == nil {
		return 0, nil
	}
	return m.cursor.GetMatchCount()
}

// CurrentMatchNumber returns the 0-based index of the match the active
// cursor sits on, or -1 if there is none.
func (m *Manager) CurrentMatchNumber() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.cursor == nil {
		return -1
	}
	return m.cursor.GetCurrentMatchNumber()
}

// CurrentMatchInfo returns the range and capture groups of the match the
// active cursor sits on.
func (m *Manager) CurrentMatchInfo() (search.MatchInfo, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.cursor == nil {
		return search.MatchInfo{}, false, nil
	}
	return m.cursor.GetFullInfoForCurrentMatch()
}

// MatchedLinePattern buckets the active search's match density into
// bucketCount buckets, for a minimap-style overview.
func (m *Manager) MatchedLinePattern(bucketCount int) (search.LinePattern, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.cursor == nil {
		return search.LinePattern{}, fmt.Errorf("no active search")
	}
	return m.cursor.CreateMatchedLinePattern(bucketCount)
}

// --- Replace logic. Mutates the buffer as it goes rather than
// navigating it, so it runs its own line-scoped MatchIndexer instead of
// going through the traversal-oriented SearchCursor. ---

// ParseSubstituteCommand parses the :s/pattern/replacement/[g] command string.
func ParseSubstituteCommand(cmdStr string) (pattern, replacement string, global bool, err error) {
	parts := strings.SplitN(cmdStr, "/", 4)
	if len(parts) < 3 || parts[0] != "" {
		err = fmt.Errorf("invalid format: use /pattern/replacement/[g]")
		return
	}

	pattern = parts[1]
	replacement = parts[2]

	if pattern == "" {
		err = fmt.Errorf("search pattern cannot be empty")
		return
	}

	if len(parts) > 3 && strings.Contains(parts[3], "g") {
		global = true
	}

	return
}

// lineMatch is a single line-scoped match, with both byte offsets (for
// splicing originalLineBytes) and rune columns (for Position bookkeeping).
type lineMatch struct {
	startByte, endByte int
	startCol, endCol   int
}

// matchesOnLine runs a line-scoped MatchIndexer over lineBytes and
// returns every match in document order, the same engine that backs
// interactive search and highlighting.
func matchesOnLine(lineBytes []byte, q *search.Query) []lineMatch {
	lineText := string(lineBytes)
	li := search.BuildLineIndex(lineText, "\n")
	mi := search.NewMatchIndexer(lineText, li, q, search.DefaultMaxResults, types.Position{})

	matches := make([]lineMatch, 0, mi.ItemCount())
	mi.ForEachMatch(func(_ int, rng types.Range) {
		matches = append(matches, lineMatch{
			startByte: utils.RuneIndexToByteOffset(lineBytes, rng.From.Col),
			endByte:   utils.RuneIndexToByteOffset(lineBytes, rng.To.Col),
			startCol:  rng.From.Col,
			endCol:    rng.To.Col,
		})
	})
	return matches
}

// Replace replaces occurrences of patternStr on the current line, sourcing
// match positions from a line-scoped MatchIndexer rather than a raw regexp
// scan. Undo is recorded for single (non-global) replacements only.
func (m *Manager) Replace(patternStr, replacement string, global bool) (int, error) {
	if patternStr == "" {
		return 0, fmt.Errorf("search pattern cannot be empty")
	}

	q, err := search.CompileRegexQuery(patternStr, false)
	if err != nil {
		return 0, fmt.Errorf("invalid search pattern: %w", err)
	}

	buf := m.editor.GetBuffer()
	cursor := m.editor.GetCursor()
	lineIdx := cursor.Line
	eventMgr := m.editor.GetEventManager()
	histMgr := m.editor.GetHistoryManager()

	originalLineBytes, err := buf.Line(lineIdx)
	if err != nil {
		return 0, fmt.Errorf("cannot get current line %d: %w", lineIdx, err)
	}

	matches := matchesOnLine(originalLineBytes, q)
	if len(matches) == 0 {
		return 0, nil
	}

	replaceCount := 0
	var finalLine bytes.Buffer
	lastIndex := 0
	canRecordUndo := !global

	var firstMatchStartPos types.Position

	if global {
		for _, mt := range matches {
			finalLine.Write(originalLineBytes[lastIndex:mt.startByte])
			finalLine.Write([]byte(replacement))
			lastIndex = mt.endByte
			replaceCount++
		}
		finalLine.Write(originalLineBytes[lastIndex:])
	} else {
		mt := matches[0]
		finalLine.Write(originalLineBytes[:mt.startByte])
		finalLine.Write([]byte(replacement))
		finalLine.Write(originalLineBytes[mt.endByte:])
		replaceCount = 1
		firstMatchStartPos = types.Position{Line: lineIdx, Col: mt.startCol}
	}

	newLineBytes := finalLine.Bytes()

	originalStartPos := types.Position{Line: lineIdx, Col: 0}
	originalEndCol := utf8.RuneCount(originalLineBytes)
	originalEndPos := types.Position{Line: lineIdx, Col: originalEndCol}

	editInfoDel, errDel := buf.Delete(originalStartPos, originalEndPos)
	if errDel != nil {
		return replaceCount, fmt.Errorf("replace failed during line delete: %w", errDel)
	}

	editInfoIns, errIns := buf.Insert(originalStartPos, newLineBytes)
	if errIns != nil {
		return replaceCount, fmt.Errorf("replace failed during line insert: %w", errIns)
	}

	if canRecordUndo && histMgr != nil {
		mt := matches[0]
		matchStartPos := types.Position{Line: lineIdx, Col: mt.startCol}

		histMgr.RecordChange(history.Change{
			Type:          history.DeleteAction,
			Text:          originalLineBytes[mt.startByte:mt.endByte],
			StartPosition: matchStartPos,
			EndPosition:   types.Position{Line: lineIdx, Col: mt.endCol},
			CursorBefore:  cursor,
		})
		histMgr.RecordChange(history.Change{
			Type:          history.InsertAction,
			Text:          []byte(replacement),
			StartPosition: matchStartPos,
			EndPosition:   types.Position{Line: lineIdx, Col: matchStartPos.Col + utf8.RuneCountInString(replacement)},
			CursorBefore:  matchStartPos,
		})
	}

	netEditInfo := types.EditInfo{
		StartIndex:     editInfoDel.StartIndex,
		StartPosition:  editInfoDel.StartPosition,
		OldEndIndex:    editInfoDel.OldEndIndex,
		OldEndPosition: editInfoDel.OldEndPosition,
		NewEndIndex:    editInfoIns.NewEndIndex,
		NewEndPosition: editInfoIns.NewEndPosition,
	}
	if eventMgr != nil {
		eventMgr.Dispatch(event.TypeBufferModified, event.BufferModifiedData{Edit: netEditInfo})
	}

	if replaceCount > 0 && !global {
		m.editor.SetCursor(firstMatchStartPos)
		m.editor.ScrollToCursor()
	} else if replaceCount > 0 && global {
		m.editor.SetCursor(types.Position{Line: lineIdx, Col: 0})
		m.editor.ScrollToCursor()
	}

	logger.DebugTagf("find", "Replace: replaced %d occurrence(s), global=%v", replaceCount, global)
	return replaceCount, nil
}
