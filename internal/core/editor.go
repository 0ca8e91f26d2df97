// internal/core/editor.go
package core

import (
	"github.com/bethropolis/tide/internal/buffer"
	"github.com/bethropolis/tide/internal/config"
	"github.com/bethropolis/tide/internal/core/clipboard"
	"github.com/bethropolis/tide/internal/core/cursor"
	"github.com/bethropolis/tide/internal/core/find"
	"github.com/bethropolis/tide/internal/core/history"
	"github.com/bethropolis/tide/internal/core/selection"
	"github.com/bethropolis/tide/internal/core/text"
	"github.com/bethropolis/tide/internal/event"
	"github.com/bethropolis/tide/internal/search"
	"github.com/bethropolis/tide/internal/types"
)

// Editor wires the buffer to the cursor, clipboard, selection, text-op,
// find, and history managers. It holds no editing logic itself beyond
// what's needed to satisfy the managers' EditorInterface contracts;
// editor_methods.go delegates the public API to the managers below.
type Editor struct {
	buffer buffer.Buffer

	cursorManager    *cursor.Manager
	clipboardManager *clipboard.Manager
	selectionManager *selection.Manager
	textOps          *text.Operations
	findManager      *find.Manager
	historyManager   *history.Manager
	eventManager     *event.Manager

	scrollOff int
}

// NewEditor creates an Editor over buf, wiring every manager against it.
// searchCache is the process-wide search.DocumentCache shared by every
// buffer the host opens; pass nil to let the find manager own a private one.
func NewEditor(buf buffer.Buffer, searchCache *search.DocumentCache) *Editor {
	e := &Editor{
		buffer:       buf,
		eventManager: event.NewManager(),
		scrollOff:    3,
	}

	e.historyManager = history.NewManager(e, history.DefaultMaxHistory)
	e.cursorManager = cursor.NewManager(e)
	e.selectionManager = selection.NewManager(e)
	e.clipboardManager = clipboard.NewManager(e)
	e.textOps = text.NewOperations(e)

	if searchCache != nil {
		e.findManager = find.NewManagerWithCache(e, searchCache)
	} else {
		e.findManager = find.NewManager(e)
	}

	return e
}

// GetBuffer returns the editor's buffer.
func (e *Editor) GetBuffer() buffer.Buffer {
	return e.buffer
}

// ScrollOff returns the number of lines to keep visible above/below the
// cursor (set to 3 by NewEditor), satisfying cursor.Editor.
func (e *Editor) ScrollOff() int {
	return e.scrollOff
}

// SetViewSize updates the cached view dimensions and rescrolls to keep
// the cursor visible.
func (e *Editor) SetViewSize(width, height int) {
	viewHeight := height - config.Get().Editor.StatusBarHeight
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.cursorManager.SetViewSize(width, viewHeight)
	e.ScrollToCursor()
}

// GetViewport returns the viewport's top line and visible height.
func (e *Editor) GetViewport() (int, int) {
	return e.cursorManager.GetViewport()
}

// GetCursor returns the current cursor position.
func (e *Editor) GetCursor() types.Position {
	return e.cursorManager.GetPosition()
}

// SetCursor sets the cursor position, clamping to buffer bounds.
func (e *Editor) SetCursor(pos types.Position) {
	e.cursorManager.SetPosition(pos)
}

// GetEventManager returns the editor's event dispatcher.
func (e *Editor) GetEventManager() *event.Manager {
	return e.eventManager
}

// GetHistoryManager returns the editor's undo/redo manager.
func (e *Editor) GetHistoryManager() *history.Manager {
	return e.historyManager
}

// ScrollToCursor ensures the cursor is visible in the viewport.
func (e *Editor) ScrollToCursor() {
	e.cursorManager.ScrollToCursor()
}

// HasSelection reports whether there is an active selection.
func (e *Editor) HasSelection() bool {
	return e.selectionManager.HasSelection()
}

// GetSelection returns the normalized selection range.
func (e *Editor) GetSelection() (start, end types.Position, ok bool) {
	return e.selectionManager.GetSelection()
}

// ClearSelection resets the selection state.
func (e *Editor) ClearSelection() {
	e.selectionManager.ClearSelection()
}

// StartOrUpdateSelection begins or extends a selection to the cursor.
func (e *Editor) StartOrUpdateSelection() {
	e.selectionManager.StartOrUpdateSelection()
}

// GetFindManager returns the editor's find/replace manager.
func (e *Editor) GetFindManager() *find.Manager {
	return e.findManager
}
