package buffer

import (
	"io"
	"sync"
	"unicode/utf8"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/rope"
)

// Buffer wraps a Rope and enforces the text store contract: every offset is
// validated against the current length and never clamped.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	rope       rope.Rope
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Invalid UTF-8 fails with an InvalidOperation domain error.
func NewBufferFromString(s string, opts ...Option) (*Buffer, error) {
	if !utf8.ValidString(s) {
		return nil, coreerr.NewDomain(coreerr.KindInvalidOperation, "text is not valid UTF-8")
	}
	b := NewBuffer(opts...)
	b.rope = rope.FromString(s)
	return b, nil
}

// NewBufferFromReader creates a buffer from an io.Reader of UTF-8 text.
// Invalid UTF-8 fails with an InvalidOperation domain error.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	content, err := rope.FromReader(r)
	if err != nil {
		return nil, coreerr.FromIO("read buffer content", err)
	}
	// Chunks split only at code point starts, so each is checked alone.
	for it := content.Chunks(); it.Next(); {
		if !utf8.ValidString(it.Chunk().String()) {
			return nil, coreerr.NewDomain(coreerr.KindInvalidOperation, "text is not valid UTF-8")
		}
	}
	b := NewBuffer(opts...)
	b.rope = content
	return b, nil
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer Snapshot and the rope iterators.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// Rope returns the current immutable rope.
func (b *Buffer) Rope() rope.Rope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope
}

// Slice returns the text in r.
func (b *Buffer) Slice(r Range) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := checkRange(b.rope, r); err != nil {
		return "", err
	}
	return b.rope.Slice(r.Start, r.End), nil
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// LineAt returns the 0-indexed line containing offset.
func (b *Buffer) LineAt(offset Offset) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineAt(b.rope, offset)
}

// OffsetAt converts a line and column to an offset.
// The column may equal the line length (the position before the newline).
func (b *Buffer) OffsetAt(line, column int) (Offset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return offsetAt(b.rope, line, column)
}

// PointAt converts an offset to a line/column position.
func (b *Buffer) PointAt(offset Offset) (Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := checkOffset(b.rope, offset); err != nil {
		return Point{}, err
	}
	return b.rope.PointAt(offset), nil
}

// LineRange returns the range of line, excluding its newline.
func (b *Buffer) LineRange(line int) (Range, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineRange(b.rope, line)
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, err := lineRange(b.rope, line)
	if err != nil {
		return "", err
	}
	return b.rope.Slice(r.Start, r.End), nil
}

// RuneAt returns the character at offset.
func (b *Buffer) RuneAt(offset Offset) (rune, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.rope.RuneAt(offset)
	if !ok {
		return 0, coreerr.OutOfRange("offset %d outside [0, %d)", offset, b.rope.Len())
	}
	return c, nil
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the offset just past the inserted text.
func (b *Buffer) Insert(offset Offset, text string) (Offset, error) {
	res, err := b.ApplyEdit(NewInsert(offset, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes the text in r and returns it.
func (b *Buffer) Delete(r Range) (string, error) {
	res, err := b.ApplyEdit(NewDelete(r.Start, r.End))
	if err != nil {
		return "", err
	}
	return res.OldText, nil
}

// Replace replaces the text in r and returns the removed text.
func (b *Buffer) Replace(r Range, text string) (string, error) {
	res, err := b.ApplyEdit(NewEdit(r, text))
	if err != nil {
		return "", err
	}
	return res.OldText, nil
}

// ApplyEdit validates and applies a single edit. The new rope is installed
// in one assignment, so readers never see text and line index disagree.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	if !utf8.ValidString(edit.NewText) {
		return EditResult{}, coreerr.NewDomain(coreerr.KindInvalidOperation, "text is not valid UTF-8")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := checkRange(b.rope, edit.Range); err != nil {
		return EditResult{}, err
	}
	if edit.IsNoOp() {
		return EditResult{OldRange: edit.Range, NewRange: edit.Range}, nil
	}

	oldText := b.rope.Slice(edit.Range.Start, edit.Range.End)
	b.rope = b.rope.Replace(edit.Range.Start, edit.Range.End, edit.NewText)
	b.revisionID = NewRevisionID()

	newEnd := edit.Range.Start + utf8.RuneCountInString(edit.NewText)
	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    newEnd - edit.Range.End,
	}, nil
}

// Reset replaces the whole content with r.
func (b *Buffer) Reset(r rope.Rope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rope = r
	b.revisionID = NewRevisionID()
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		rope:       b.rope,
		revisionID: b.revisionID,
	}
}

// Validation shared by Buffer and Snapshot.

func checkOffset(r rope.Rope, offset Offset) error {
	if offset < 0 || offset > r.Len() {
		return coreerr.OutOfRange("offset %d outside [0, %d]", offset, r.Len())
	}
	return nil
}

func checkRange(r rope.Rope, rng Range) error {
	if !rng.IsValid() {
		return coreerr.OutOfRange("range %s has start after end", rng)
	}
	if rng.Start < 0 || rng.End > r.Len() {
		return coreerr.OutOfRange("range %s outside [0, %d]", rng, r.Len())
	}
	return nil
}

func lineAt(r rope.Rope, offset Offset) (int, error) {
	if err := checkOffset(r, offset); err != nil {
		return 0, err
	}
	return r.LineAt(offset), nil
}

func offsetAt(r rope.Rope, line, column int) (Offset, error) {
	if line < 0 || line >= r.LineCount() {
		return 0, coreerr.OutOfRange("line %d outside [0, %d)", line, r.LineCount())
	}
	off, ok := r.OffsetAt(Point{Line: line, Column: column})
	if !ok {
		n, _ := r.LineLen(line)
		return 0, coreerr.OutOfRange("column %d outside [0, %d] on line %d", column, n, line)
	}
	return off, nil
}

func lineRange(r rope.Rope, line int) (Range, error) {
	start, ok := r.LineStart(line)
	if !ok {
		return Range{}, coreerr.OutOfRange("line %d outside [0, %d)", line, r.LineCount())
	}
	end, _ := r.LineEnd(line)
	return Range{Start: start, End: end}, nil
}
