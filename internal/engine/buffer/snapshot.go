package buffer

import "github.com/ishibashi-futos/notepad-macos/internal/engine/rope"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is a plain value: copying it is cheap and it never changes, even if the
// original buffer is modified.
type Snapshot struct {
	rope       rope.Rope
	revisionID RevisionID
}

// SnapshotOf wraps an existing rope.
func SnapshotOf(r rope.Rope) Snapshot {
	return Snapshot{rope: r}
}

// Rope returns the snapshot's rope.
func (s Snapshot) Rope() rope.Rope {
	return s.rope
}

// Text returns the full snapshot content as a string.
func (s Snapshot) Text() string {
	return s.rope.String()
}

// Slice returns the text in r.
func (s Snapshot) Slice(r Range) (string, error) {
	if err := checkRange(s.rope, r); err != nil {
		return "", err
	}
	return s.rope.Slice(r.Start, r.End), nil
}

// Len returns the number of characters.
func (s Snapshot) Len() Offset {
	return s.rope.Len()
}

// LineCount returns the number of lines.
func (s Snapshot) LineCount() int {
	return s.rope.LineCount()
}

// LineAt returns the 0-indexed line containing offset.
func (s Snapshot) LineAt(offset Offset) (int, error) {
	return lineAt(s.rope, offset)
}

// OffsetAt converts a line and column to an offset.
func (s Snapshot) OffsetAt(line, column int) (Offset, error) {
	return offsetAt(s.rope, line, column)
}

// PointAt converts an offset to a line/column position.
func (s Snapshot) PointAt(offset Offset) (Point, error) {
	if err := checkOffset(s.rope, offset); err != nil {
		return Point{}, err
	}
	return s.rope.PointAt(offset), nil
}

// RevisionID returns the revision ID of this snapshot.
func (s Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// IsEmpty returns true if the snapshot is empty.
func (s Snapshot) IsEmpty() bool {
	return s.rope.IsEmpty()
}

// Chunks returns an iterator over all chunks in the snapshot's rope.
func (s Snapshot) Chunks() *rope.ChunkIterator {
	return s.rope.Chunks()
}

// Lines returns an iterator over all lines in the snapshot.
func (s Snapshot) Lines() *rope.LineIterator {
	return s.rope.Lines()
}

// Runes returns an iterator over all characters in the snapshot.
func (s Snapshot) Runes() *rope.RuneIterator {
	return s.rope.Runes()
}
