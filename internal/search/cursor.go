package search

import (
	"fmt"

	"github.com/bethropolis/tide/internal/types"
)

// SearchProperties is a partial update for SearchCursor.SetSearchDocumentAndQuery:
// any field that is non-nil/non-zero-valued per its pointer replaces the
// cursor's current value, leaving the rest untouched.
type SearchProperties struct {
	Document   Document
	Query      string
	IsRegex    bool
	IgnoreCase *bool
	Position   *types.Position
	MaxResults *int
}

// SearchCursor binds a document, a query, and a position, orchestrating
// lazy reindexing and stepwise navigation. One cursor exists per search
// session; the host mutates it in place rather than recreating it when
// the query changes.
type SearchCursor struct {
	cache *DocumentCache

	doc        Document
	query      *Query
	queryIsRaw bool // true if the query source is a regex pattern, not literal text
	ignoreCase bool
	maxResults int

	currentPosition types.Range
	atOccurrence    bool
	resultsCurrent  bool

	indexer *MatchIndexer
}

// NewSearchCursor creates a cursor backed by the given process-wide
// DocumentCache, applying any initial properties.
func NewSearchCursor(cache *DocumentCache, props SearchProperties) (*SearchCursor, error) {
	c := &SearchCursor{cache: cache, maxResults: DefaultMaxResults}
	if err := c.SetSearchDocumentAndQuery(props); err != nil {
		return nil, err
	}
	return c, nil
}

// SetSearchDocumentAndQuery applies a partial update. Supplying a
// document, or a changed query (source or flags), invalidates
// resultsCurrent; a changed IgnoreCase recompiles the current query even
// when no new Query is given. On success atOccurrence resets so the next
// Find reseeds; a query that fails to compile returns the error and
// leaves the previous query in place.
func (c *SearchCursor) SetSearchDocumentAndQuery(props SearchProperties) error {
	if props.Document != nil {
		c.doc = props.Document
		c.resultsCurrent = false
	}

	if props.IgnoreCase != nil {
		if *props.IgnoreCase != c.ignoreCase {
			c.ignoreCase = *props.IgnoreCase
			c.resultsCurrent = false
		}
	}

	if props.MaxResults != nil && *props.MaxResults > 0 {
		c.maxResults = *props.MaxResults
	}

	source, isRegex := props.Query, props.IsRegex
	if source == "" && c.query != nil && c.query.IgnoreCase != c.ignoreCase {
		// Only the case flag changed: recompile the current query with it.
		source, isRegex = c.query.Source, c.queryIsRaw
	}

	if source != "" {
		if !c.query.sameAs(source, c.ignoreCase) || c.queryIsRaw != isRegex {
			var q *Query
			var err error
			if isRegex {
				q, err = CompileRegexQuery(source, c.ignoreCase)
			} else {
				q, err = CompileTextQuery(source, c.ignoreCase)
			}
			if err != nil {
				// Keep the previous query on a compile failure.
				return err
			}
			c.query = q
			c.queryIsRaw = isRegex
			c.resultsCurrent = false
		}
	}

	if props.Position != nil {
		c.currentPosition = types.Range{From: *props.Position, To: *props.Position}
	}
	c.atOccurrence = false

	return nil
}

// refresh lazily reindexes the document and/or rescans the query.
func (c *SearchCursor) refresh() error {
	if c.doc == nil {
		return ErrNoDocument
	}
	if c.query == nil {
		return fmt.Errorf("%w: no query set", ErrInvalidQuery)
	}

	if c.cache.NeedsReindex(c.doc) {
		c.resultsCurrent = false
	}

	if !c.resultsCurrent {
		c.scan()
	}

	return nil
}

// scan rebuilds the MatchIndexer from scratch, anchored at the cursor's
// last known position (or document start if none).
func (c *SearchCursor) scan() {
	text, li, _ := c.cache.Ensure(c.doc)

	c.indexer = NewMatchIndexer(text, li, c.query, c.maxResults, c.currentPosition.From)
	c.resultsCurrent = true
}

// ScanDocumentAndStoreResultsInCursor forces a rescan and returns the
// resulting match count.
func (c *SearchCursor) ScanDocumentAndStoreResultsInCursor() (int, error) {
	if c.doc == nil {
		return 0, ErrNoDocument
	}
	if c.query == nil {
		return 0, fmt.Errorf("%w: no query set", ErrInvalidQuery)
	}
	c.resultsCurrent = false
	c.scan()
	return c.indexer.ItemCount(), nil
}

// GetMatchCount triggers a lazy refresh and returns the number of stored
// matches, silently capped at maxResults (the underlying MatchIndexer
// tracks whether a scan was truncated; this call doesn't surface it).
func (c *SearchCursor) GetMatchCount() (int, error) {
	if err := c.refresh(); err != nil {
		return 0, err
	}
	return c.indexer.ItemCount(), nil
}

// GetCurrentMatchNumber returns the 0-based index of the current match,
// or -1 if no match is current.
func (c *SearchCursor) GetCurrentMatchNumber() int {
	if c.indexer == nil || !c.atOccurrence {
		return -1
	}
	return c.indexer.CurrentGroupNumber()
}

// Find is the central navigation operation: lazily refreshes, then
// either seeds from the cursor's position (binary search) or steps to
// the next/previous match. On exhausting matches in the search
// direction, it clears atOccurrence so the next Find reseeds from the
// boundary rather than getting permanently stuck past the end.
func (c *SearchCursor) Find(reverse bool) (types.Range, bool, error) {
	if err := c.refresh(); err != nil {
		return types.Range{}, false, err
	}

	if c.indexer.ItemCount() == 0 {
		c.atOccurrence = false
		return types.Range{}, false, nil
	}

	if !c.atOccurrence {
		seed := c.currentPosition.From
		lineCount := c.lineCount()
		if seed == (types.Position{}) && reverse {
			seed = types.Position{Line: lineCount, Col: 0}
		}

		offset := c.lineIndexOf().OffsetOf(seed)
		idx, found := c.indexer.FindResultIndexNearPos(offset, reverse)
		if !found {
			c.atOccurrence = false
			return types.Range{}, false, nil
		}

		c.indexer.SetCurrentGroup(idx)
		rng := c.indexer.RangeAt(idx)
		c.currentPosition = rng
		c.atOccurrence = true
		return rng, true, nil
	}

	var rng types.Range
	var ok bool
	if reverse {
		rng, ok = c.indexer.PrevMatch()
	} else {
		rng, ok = c.indexer.NextMatch()
	}

	if !ok {
		c.atOccurrence = false
		c.currentPosition = types.Range{}
		return types.Range{}, false, nil
	}

	c.currentPosition = rng
	c.atOccurrence = true
	return rng, true, nil
}

// ForEachMatch visits every match in document order after a lazy refresh.
func (c *SearchCursor) ForEachMatch(fn func(int, types.Range)) error {
	if err := c.refresh(); err != nil {
		return err
	}
	c.indexer.ForEachMatch(fn)
	return nil
}

// ForEachMatchWithinRange visits, in document order after a lazy
// refresh, the matches that start at or after from and whose start line
// is at most to.Line. A match that begins before from is not visited.
func (c *SearchCursor) ForEachMatchWithinRange(from, to types.Position, fn func(int, types.Range)) error {
	if err := c.refresh(); err != nil {
		return err
	}
	c.indexer.ForEachMatchWithinRange(from, to, fn)
	return nil
}

// MatchInfo is the full detail recovered for the current match: its
// range plus capture groups, which the MatchTable itself never stores.
type MatchInfo struct {
	Range  types.Range
	Groups []string
}

// GetFullInfoForCurrentMatch re-executes the regex at the current
// match's stored start offset to recover capture groups.
func (c *SearchCursor) GetFullInfoForCurrentMatch() (MatchInfo, bool, error) {
	if err := c.refresh(); err != nil {
		return MatchInfo{}, false, err
	}
	if !c.atOccurrence {
		return MatchInfo{}, false, nil
	}

	text, li, _ := c.cache.Ensure(c.doc)
	startOffset := li.OffsetOf(c.currentPosition.From)

	groups := captureGroupsAt(text, c.query, startOffset)
	if groups == nil {
		return MatchInfo{}, false, nil
	}

	return MatchInfo{Range: c.currentPosition, Groups: groups}, true, nil
}

// LinePattern is a bucketed minimap overview of which document regions
// contain matches.
type LinePattern struct {
	LinesPerBucket int
	Buckets        []byte
}

// CreateMatchedLinePattern computes a minimap overview with bucketCount
// buckets after a lazy refresh.
func (c *SearchCursor) CreateMatchedLinePattern(bucketCount int) (LinePattern, error) {
	if err := c.refresh(); err != nil {
		return LinePattern{}, err
	}
	buckets := make([]byte, bucketCount)
	linesPerBucket := c.indexer.FillPattern(buckets)
	return LinePattern{LinesPerBucket: linesPerBucket, Buckets: buckets}, nil
}

func (c *SearchCursor) lineCount() int {
	_, li, _ := c.cache.Ensure(c.doc)
	return li.LineCount()
}

func (c *SearchCursor) lineIndexOf() *LineIndex {
	_, li, _ := c.cache.Ensure(c.doc)
	return li
}
