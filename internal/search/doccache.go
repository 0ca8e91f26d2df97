package search

import (
	"sync"

	"github.com/bethropolis/tide/internal/logger"
)

// Document is the host collaborator this engine consumes: a text source
// with a monotonic revision counter advanced on every mutation,
// including undo. Implementations should be cheap, comparable values
// (e.g. a struct wrapping a single pointer) since Document is used as a
// DocumentCache map key.
type Document interface {
	Value() string
	LineSeparator() string
	Revision() uint64
}

// cacheEntry is what DocumentCache stores per document.
type cacheEntry struct {
	text      string
	lineIndex *LineIndex
	revision  uint64
}

// DocumentCache is a process-wide mapping from document identity to
// {text, LineIndex, revision}, rebuilt whenever a document's revision
// advances past the cached one.
//
// A weak-keyed map would let entries be reclaimed automatically when a
// document is dropped, but Go has no generic weak-reference facility at
// this module's go1.21 floor. This cache instead relies on the host
// calling Invalidate when a document closes.
type DocumentCache struct {
	mu      sync.RWMutex
	entries map[Document]*cacheEntry
}

// NewDocumentCache returns an empty cache.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{entries: make(map[Document]*cacheEntry)}
}

// NeedsReindex reports whether doc's cached revision is stale or absent.
func (c *DocumentCache) NeedsReindex(doc Document) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[doc]
	return !ok || entry.revision != doc.Revision()
}

// Ensure returns the up-to-date cache entry for doc, rebuilding it if the
// document's revision has advanced since it was last indexed. Because
// the caller holds a reference to doc for the duration of this call, the
// entry cannot be evicted out from under it mid-call.
func (c *DocumentCache) Ensure(doc Document) (text string, li *LineIndex, revision uint64) {
	c.mu.RLock()
	entry, ok := c.entries[doc]
	c.mu.RUnlock()

	rev := doc.Revision()
	if ok && entry.revision == rev {
		return entry.text, entry.lineIndex, entry.revision
	}

	text = doc.Value()
	li = BuildLineIndex(text, doc.LineSeparator())
	entry = &cacheEntry{text: text, lineIndex: li, revision: rev}

	c.mu.Lock()
	c.entries[doc] = entry
	c.mu.Unlock()

	logger.DebugTagf("search", "DocumentCache: reindexed doc at revision %d (%d lines)", rev, li.LineCount())

	return entry.text, entry.lineIndex, entry.revision
}

// Invalidate drops doc's cache entry, e.g. when the host closes it.
func (c *DocumentCache) Invalidate(doc Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, doc)
}
