package search

import (
	"regexp"
	"unicode/utf8"

	"github.com/bethropolis/tide/internal/logger"
	"github.com/bethropolis/tide/internal/types"
)

// MatchIndexer scans a document's text for all matches of a compiled
// regex and stores them compactly in a GroupArray of (startOffset,
// endOffset) rune-offset pairs, in ascending document order. Offsets
// are rune offsets, matching LineIndex and types.Position.Col.
type MatchIndexer struct {
	text       string
	lineIndex  *LineIndex
	table      *GroupArray
	truncated  bool
	lastLine   int // hint for the next offset->Position conversion
}

// NewMatchIndexer runs a cursor-relative two-phase scan — forward from
// startPos first, then the remainder from the document start — and
// returns an indexer holding the resulting match table in ascending
// document order.
func NewMatchIndexer(text string, lineIndex *LineIndex, q *Query, maxResults int, startPos types.Position) *MatchIndexer {
	mi := &MatchIndexer{text: text, lineIndex: lineIndex, table: NewGroupArray()}

	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	s := lineIndex.OffsetOf(startPos)
	if s < 0 {
		s = 0
	}
	if total := lineIndex.TotalChars(); s > total {
		s = total
	}

	primary, truncated := runScan(text, q.re, s, maxResults)

	if s > 0 && len(primary)/2 < maxResults {
		remaining := maxResults - len(primary)/2
		secondary, secondaryTruncated := runScanCapped(text, q.re, 0, s, remaining)
		truncated = truncated || secondaryTruncated

		// Dedup the join edge: a match starting exactly at s could be
		// collected by both phases.
		if len(secondary) >= 2 && len(primary) >= 2 &&
			secondary[len(secondary)-2] == primary[0] && secondary[len(secondary)-1] == primary[1] {
			secondary = secondary[:len(secondary)-2]
		}

		primary = append(secondary, primary...)
	}

	mi.table.buf = primary
	mi.truncated = truncated

	logger.DebugTagf("search", "MatchIndexer: scanned %d matches (truncated=%v)", mi.table.ItemCount(), mi.truncated)

	return mi
}

// DefaultMaxResults is the default ceiling on stored matches per scan.
const DefaultMaxResults = 10_000_000

// runScan scans text for matches from byte-convertible rune offset
// `from` to the end of the document, capped at maxResults matches.
func runScan(text string, re *regexp.Regexp, from, maxResults int) (pairs []uint32, truncated bool) {
	return runScanCapped(text, re, from, -1, maxResults)
}

// runScanCapped scans from rune offset `from`, stopping once a match's
// end would exceed rune offset `endCap` (if endCap >= 0), or once
// maxResults matches have been collected.
func runScanCapped(text string, re *regexp.Regexp, from, endCap, maxResults int) (pairs []uint32, truncated bool) {
	bytePos := runeOffsetToByteOffset(text, from)
	rc := &runeCounter{text: text, byteOff: bytePos, runeOff: from}

	count := 0
	for bytePos <= len(text) {
		loc := re.FindStringIndex(text[bytePos:])
		if loc == nil {
			break
		}

		matchStartByte := bytePos + loc[0]
		matchEndByte := bytePos + loc[1]

		startRune := rc.runeOffsetAt(matchStartByte)
		endRune := rc.runeOffsetAt(matchEndByte)

		if endCap >= 0 && endRune > endCap {
			break
		}

		pairs = append(pairs, uint32(startRune), uint32(endRune))
		count++
		if count >= maxResults {
			truncated = true
			break
		}

		if matchEndByte == matchStartByte {
			// Zero-width match: force progress by one rune.
			if matchEndByte >= len(text) {
				break
			}
			_, size := utf8.DecodeRuneInString(text[matchEndByte:])
			bytePos = matchEndByte + size
		} else {
			bytePos = matchEndByte
		}
	}

	return pairs, truncated
}

// runeCounter converts monotonically increasing byte offsets into rune
// offsets in amortized O(1), used while walking match results in
// ascending document order.
type runeCounter struct {
	text    string
	byteOff int
	runeOff int
}

func (rc *runeCounter) runeOffsetAt(byteOff int) int {
	for rc.byteOff < byteOff {
		_, size := utf8.DecodeRuneInString(rc.text[rc.byteOff:])
		rc.byteOff += size
		rc.runeOff++
	}
	return rc.runeOff
}

// runeOffsetToByteOffset walks text once to find the byte index of the
// rune at runeOffset.
func runeOffsetToByteOffset(text string, runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == runeOffset {
			return i
		}
		n++
	}
	return len(text)
}

// ItemCount returns the number of matches stored.
func (mi *MatchIndexer) ItemCount() int {
	return mi.table.ItemCount()
}

// Truncated reports whether maxResults cut the scan short.
func (mi *MatchIndexer) Truncated() bool {
	return mi.truncated
}

// RangeAt returns the (from, to) Range of match k, using lastLine as a
// hint for the first conversion and the from-line as the hint for the
// to-line conversion.
func (mi *MatchIndexer) RangeAt(k int) types.Range {
	start, end := mi.table.Group(k)
	from := mi.lineIndex.PosFromOffset(mi.lastLine, int(start))
	to := mi.lineIndex.PosFromOffset(from.Line, int(end))
	mi.lastLine = to.Line
	return types.Range{From: from, To: to}
}

// CurrentGroupNumber returns the match number the internal cursor sits
// on, or -1 if none.
func (mi *MatchIndexer) CurrentGroupNumber() int {
	return mi.table.CurrentGroupNumber()
}

// SetCurrentGroup moves the internal cursor to match k.
func (mi *MatchIndexer) SetCurrentGroup(k int) {
	mi.table.SetCurrentGroup(k)
}

// ClearCurrentGroup resets the internal cursor to "no match selected".
func (mi *MatchIndexer) ClearCurrentGroup() {
	mi.table.ClearCurrentGroup()
}

// NextMatch advances the cursor and returns the next match's range.
func (mi *MatchIndexer) NextMatch() (types.Range, bool) {
	k, ok := mi.table.NextGroupIndex()
	if !ok {
		return types.Range{}, false
	}
	return mi.RangeAt(k), true
}

// PrevMatch retreats the cursor and returns the previous match's range.
func (mi *MatchIndexer) PrevMatch() (types.Range, bool) {
	k, ok := mi.table.PrevGroupIndex()
	if !ok {
		return types.Range{}, false
	}
	return mi.RangeAt(k), true
}

// FindResultIndexNearPos performs classical bisection on startOffset.
// An exact hit returns that index. With no exact hit: forward returns
// the first match with startOffset > offset (lowerBound); reverse
// returns the last match with startOffset < offset (upperBound). Both
// return (0, false) if none qualifies — an empty table always returns
// (0, false) without consulting the comparison.
func (mi *MatchIndexer) FindResultIndexNearPos(offset int, reverse bool) (int, bool) {
	n := mi.table.ItemCount()
	if n == 0 {
		return 0, false
	}

	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi) / 2
		start, _ := mi.table.Group(mid)
		if int(start) < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	// lo is now the first index with start >= offset (lowerBound-or-equal).
	start, _ := mi.table.Group(lo)

	if int(start) == offset {
		return lo, true
	}

	if !reverse {
		if int(start) > offset {
			return lo, true
		}
		return 0, false // lo == n-1 and start < offset: nothing after
	}

	// reverse: want last index with start < offset.
	if int(start) < offset {
		return lo, true
	}
	if lo == 0 {
		return 0, false
	}
	return lo - 1, true
}

// ForEachMatchWithinRange binary-searches the first match at or after
// `from`, then iterates linearly while the match's from-line is <= to.Line.
func (mi *MatchIndexer) ForEachMatchWithinRange(from, to types.Position, fn func(int, types.Range)) {
	fromOffset := mi.lineIndex.OffsetOf(from)

	idx, found := mi.FindResultIndexNearPos(fromOffset, false)
	if !found {
		return
	}

	lastLine := from.Line
	for k := idx; k < mi.table.ItemCount(); k++ {
		start, end := mi.table.Group(k)
		fromPos := mi.lineIndex.PosFromOffset(lastLine, int(start))
		if fromPos.Line > to.Line {
			return
		}
		toPos := mi.lineIndex.PosFromOffset(fromPos.Line, int(end))
		lastLine = toPos.Line
		fn(k, types.Range{From: fromPos, To: toPos})
	}
}

// ForEachMatch iterates every stored match in document order.
func (mi *MatchIndexer) ForEachMatch(fn func(int, types.Range)) {
	lastLine := 0
	for k := 0; k < mi.table.ItemCount(); k++ {
		start, end := mi.table.Group(k)
		fromPos := mi.lineIndex.PosFromOffset(lastLine, int(start))
		toPos := mi.lineIndex.PosFromOffset(fromPos.Line, int(end))
		lastLine = toPos.Line
		fn(k, types.Range{From: fromPos, To: toPos})
	}
}

// FillPattern computes a bucketed minimap overview: for an output array
// of size B, sets out[floor(fromLine/linesPerBucket)] = 1 for every
// bucket containing at least one match's start line. The caller
// provides a zeroed buffer; FillPattern never clears it.
func (mi *MatchIndexer) FillPattern(out []byte) int {
	lineCount := mi.lineIndex.LineCount()
	bucketCount := len(out)
	if bucketCount == 0 || lineCount == 0 {
		return 0
	}

	linesPerBucket := lineCount / bucketCount
	if linesPerBucket <= 0 {
		linesPerBucket = 1
	}

	lastLine := 0
	for k := 0; k < mi.table.ItemCount(); k++ {
		start, _ := mi.table.Group(k)
		fromPos := mi.lineIndex.PosFromOffset(lastLine, int(start))
		lastLine = fromPos.Line

		bucket := fromPos.Line / linesPerBucket
		if bucket >= bucketCount {
			bucket = bucketCount - 1
		}
		out[bucket] = 1
	}

	return linesPerBucket
}
