package search

import "github.com/bethropolis/tide/internal/buffer"

// BufferDocument adapts a buffer.Buffer to Document. It wraps the
// buffer value directly (not a pointer to one) so two BufferDocuments
// over the same buffer compare equal as DocumentCache map keys.
type BufferDocument struct {
	Buf buffer.Buffer
}

// NewBufferDocument wraps buf for use with SearchCursor/DocumentCache.
func NewBufferDocument(buf buffer.Buffer) BufferDocument {
	return BufferDocument{Buf: buf}
}

func (d BufferDocument) Value() string {
	return string(d.Buf.Bytes())
}

func (d BufferDocument) LineSeparator() string {
	return "\n"
}

func (d BufferDocument) Revision() uint64 {
	return d.Buf.Revision()
}
