package search

import (
	"fmt"
	"regexp"
)

// Query is a compiled search query plus the metadata needed to detect
// whether a later query differs from it in source or flags.
type Query struct {
	Source     string
	IgnoreCase bool
	re         *regexp.Regexp
}

// sameAs reports whether source/ignoreCase would compile to the same
// regex q already holds, so a cursor only invalidates its cached
// results when the query actually changes.
func (q *Query) sameAs(source string, ignoreCase bool) bool {
	return q != nil && q.Source == source && q.IgnoreCase == ignoreCase
}

// CompileTextQuery escapes literal text and wraps it with multiline
// global flags (+ case-insensitive if requested), so the same match
// engine serves both literal and regex-typed queries.
func CompileTextQuery(text string, ignoreCase bool) (*Query, error) {
	return compile(regexp.QuoteMeta(text), text, ignoreCase)
}

// CompileRegexQuery rewraps a regex-typed query, keeping only its source
// pattern: any host-provided flags other than ignoreCase are discarded
// and replaced with this engine's own gm(i) convention.
func CompileRegexQuery(pattern string, ignoreCase bool) (*Query, error) {
	return compile(pattern, pattern, ignoreCase)
}

func compile(wrapped, source string, ignoreCase bool) (*Query, error) {
	flags := "m"
	if ignoreCase {
		flags = "mi"
	}

	re, err := regexp.Compile(fmt.Sprintf("(?%s)%s", flags, wrapped))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	return &Query{Source: source, IgnoreCase: ignoreCase, re: re}, nil
}
