package search

import "github.com/bethropolis/tide/internal/types"

// captureGroupsAt re-executes q's regex at the rune offset startOffset to
// recover capture groups, which the match table itself never stores.
func captureGroupsAt(text string, q *Query, startOffset int) []string {
	byteOffset := runeOffsetToByteOffset(text, startOffset)

	loc := q.re.FindStringSubmatchIndex(text[byteOffset:])
	if loc == nil || loc[0] != 0 {
		return nil
	}

	groups := make([]string, 0, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, text[byteOffset+loc[i]:byteOffset+loc[i+1]])
	}
	return groups
}

// ScanOptions configures a one-shot, stateless scan.
type ScanOptions struct {
	Document   Document
	Query      string
	IsRegex    bool
	IgnoreCase bool
	// Range restricts the scan to matches that start at or after From and
	// whose start line is at most To.Line; nil (the default) scans the
	// whole document.
	Range   *types.Range
	OnMatch func(from, to types.Position, groups []string)
}

// ScanDocumentForMatches is a fire-and-forget scan: it calls onMatch for
// every match in order and retains no state afterward. Used when the
// caller needs a count or a one-time pass but not a navigable cursor.
func ScanDocumentForMatches(opts ScanOptions) error {
	if opts.Document == nil {
		return ErrNoDocument
	}

	var q *Query
	var err error
	if opts.IsRegex {
		q, err = CompileRegexQuery(opts.Query, opts.IgnoreCase)
	} else {
		q, err = CompileTextQuery(opts.Query, opts.IgnoreCase)
	}
	if err != nil {
		return err
	}

	text := opts.Document.Value()
	li := BuildLineIndex(text, opts.Document.LineSeparator())
	indexer := NewMatchIndexer(text, li, q, DefaultMaxResults, types.Position{})

	if opts.OnMatch == nil {
		return nil
	}

	visit := func(_ int, rng types.Range) {
		groups := captureGroupsAt(text, q, li.OffsetOf(rng.From))
		opts.OnMatch(rng.From, rng.To, groups)
	}

	if opts.Range != nil {
		indexer.ForEachMatchWithinRange(opts.Range.From, opts.Range.To, visit)
	} else {
		indexer.ForEachMatch(visit)
	}

	return nil
}
