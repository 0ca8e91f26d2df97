package search

import (
	"strings"

	"github.com/bethropolis/tide/internal/logger"
	"github.com/bethropolis/tide/internal/types"
)

// LineIndex is a prefix-sum table mapping between flat character offsets
// and (line, column) positions. L[i] holds the cumulative rune count of
// the document through the end of line i, including its trailing
// separator, so the start offset of line i (for i>0) is L[i-1].
type LineIndex struct {
	cumulative []int
	separator  string
}

// BuildLineIndex splits text on separator and builds the prefix-sum table.
// separator is typically "\n" or "\r\n".
func BuildLineIndex(text, separator string) *LineIndex {
	if separator == "" {
		separator = "\n"
	}

	lines := strings.Split(text, separator)
	cumulative := make([]int, len(lines))

	running := 0
	sepLen := len([]rune(separator))
	for i, line := range lines {
		running += len([]rune(line))
		if i < len(lines)-1 {
			running += sepLen
		}
		cumulative[i] = running
	}

	return &LineIndex{cumulative: cumulative, separator: separator}
}

// LineCount returns the number of lines in the indexed document.
func (li *LineIndex) LineCount() int {
	return len(li.cumulative)
}

// TotalChars returns the total rune count of the indexed document.
func (li *LineIndex) TotalChars() int {
	if len(li.cumulative) == 0 {
		return 0
	}
	return li.cumulative[len(li.cumulative)-1]
}

// lineStart returns the offset of the first rune of line i.
func (li *LineIndex) lineStart(i int) int {
	if i <= 0 {
		return 0
	}
	return li.cumulative[i-1]
}

// OffsetOf converts a Position into a flat document offset. O(1).
// Line == LineCount() addresses the end of the document; a position
// past that, or an offset past the end, is clamped to TotalChars().
func (li *LineIndex) OffsetOf(p types.Position) int {
	if n := len(li.cumulative); p.Line > n {
		logger.Warnf("LineIndex.OffsetOf: line %d out of range (%d lines), clamping", p.Line, n)
		p = types.Position{Line: n, Col: 0}
	}
	offset := li.lineStart(p.Line) + p.Col
	if total := li.TotalChars(); offset > total {
		logger.Warnf("LineIndex.OffsetOf: offset %d past end (%d), clamping", offset, total)
		offset = total
	}
	return offset
}

// PosFromOffset converts a flat offset into a Position, scanning linearly
// from startLine. Matches arrive in ascending order, so a hinted linear
// scan amortizes to O(lines+matches) across a full iteration instead of
// O(matches*log lines) for bisection — the preferred path for bulk use.
func (li *LineIndex) PosFromOffset(startLine, offset int) types.Position {
	if startLine < 0 {
		startLine = 0
	}
	n := len(li.cumulative)
	if n == 0 {
		return types.Position{Line: 0, Col: 0}
	}
	if startLine >= n {
		startLine = n - 1
	}
	if total := li.cumulative[n-1]; offset < 0 || offset > total {
		logger.Warnf("LineIndex.PosFromOffset: offset %d out of range (0-%d), clamping", offset, total)
		offset = max(0, min(offset, total))
	}

	i := startLine
	// The hint may overshoot a backward-moving offset; walk back first.
	for i > 0 && li.lineStart(i) > offset {
		i--
	}
	for i < n-1 && li.cumulative[i] <= offset {
		i++
	}

	return types.Position{Line: i, Col: offset - li.lineStart(i)}
}

// PosFromOffsetBinary converts a flat offset into a Position via bisection.
// Used for isolated lookups where there's no locality to exploit; prefer
// PosFromOffset instead when converting many offsets in ascending order.
func (li *LineIndex) PosFromOffsetBinary(offset int) types.Position {
	n := len(li.cumulative)
	if n == 0 {
		return types.Position{Line: 0, Col: 0}
	}

	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if li.cumulative[mid] > offset {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return types.Position{Line: lo, Col: offset - li.lineStart(lo)}
}
