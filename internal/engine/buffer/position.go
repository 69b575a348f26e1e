package buffer

import (
	"fmt"
	"sync/atomic"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/rope"
)

// Offset is a character (code point) position in the buffer.
type Offset = rope.Offset

// Point is a line and column position. Both are 0-indexed and the column is
// measured in characters from the start of the line.
type Point = rope.Point

// FormatPoint returns a human-readable representation of p, 1-based as
// editors display it.
func FormatPoint(p Point) string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter atomic.Uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(revisionCounter.Add(1))
}
