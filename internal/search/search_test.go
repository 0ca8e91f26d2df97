package search

import "github.com/bethropolis/tide/internal/types"

// stringDocument is a minimal Document for tests: an immutable string
// plus a revision counter the test bumps by hand to simulate edits.
type stringDocument struct {
	text string
	rev  uint64
}

func newStringDocument(text string) *stringDocument {
	return &stringDocument{text: text, rev: 1}
}

func (d *stringDocument) Value() string        { return d.text }
func (d *stringDocument) LineSeparator() string { return "\n" }
func (d *stringDocument) Revision() uint64      { return d.rev }

func (d *stringDocument) setText(text string) {
	d.text = text
	d.rev++
}

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }
