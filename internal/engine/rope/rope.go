package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
//
// Offsets are code point offsets. Editing operations clamp offsets into
// [0, Len()]; strict validation belongs to the caller (see package buffer).
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope from a string.
// The string must be valid UTF-8.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return Rope{root: buildFromChunks(splitIntoChunks(s))}
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// Len returns the number of code points.
func (r Rope) Len() Offset {
	if r.root == nil {
		return 0
	}
	return r.root.Chars()
}

// LenBytes returns the UTF-8 byte length.
func (r Rope) LenBytes() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.root.summary.Bytes)
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in [start, end).
func (r Rope) Slice(start, end Offset) string {
	start, end = r.clamp(start), r.clamp(end)
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// RuneAt returns the code point at offset.
// Returns false if offset is not inside the rope.
func (r Rope) RuneAt(offset Offset) (rune, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}
	return r.root.runeAt(offset), true
}

// Insert inserts text at offset.
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset Offset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	left, right := split(r.root, r.clamp(offset))
	return Rope{root: collapse(join(join(left, FromString(text).root), right))}
}

// Delete removes the text in [start, end).
// Returns a new rope; original is unchanged.
func (r Rope) Delete(start, end Offset) Rope {
	start, end = r.clamp(start), r.clamp(end)
	if r.root == nil || start >= end {
		return r
	}
	left, rest := split(r.root, start)
	_, right := split(rest, end-start)
	return Rope{root: collapse(join(left, right))}
}

// Replace replaces the text in [start, end) with text.
// Returns a new rope; original is unchanged.
func (r Rope) Replace(start, end Offset, text string) Rope {
	start, end = r.clamp(start), r.clamp(end)
	if start > end {
		start, end = end, start
	}
	left, rest := split(r.root, start)
	_, right := split(rest, end-start)
	mid := FromString(text).root
	return Rope{root: collapse(join(join(left, mid), right))}
}

// Split splits the rope at offset.
// Left contains [0, offset), right contains [offset, Len()).
func (r Rope) Split(offset Offset) (Rope, Rope) {
	left, right := split(r.root, r.clamp(offset))
	return Rope{root: collapse(left)}, Rope{root: collapse(right)}
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	return Rope{root: collapse(join(r.root, other.root))}
}

// LineAt returns the 0-indexed line containing offset.
func (r Rope) LineAt(offset Offset) int {
	offset = r.clamp(offset)
	if r.root == nil || offset == 0 {
		return 0
	}
	return r.root.newlinesBefore(offset)
}

// LineStart returns the offset of the first character of line.
func (r Rope) LineStart(line int) (Offset, bool) {
	if line < 0 || line >= r.LineCount() {
		return 0, false
	}
	if line == 0 {
		return 0, true
	}
	return r.root.offsetAfterNewline(line), true
}

// LineEnd returns the offset just before the newline that terminates line,
// or Len() for the last line.
func (r Rope) LineEnd(line int) (Offset, bool) {
	if line < 0 || line >= r.LineCount() {
		return 0, false
	}
	if line == r.LineCount()-1 {
		return r.Len(), true
	}
	next, _ := r.LineStart(line + 1)
	return next - 1, true
}

// LineLen returns the number of characters on line, excluding the newline.
func (r Rope) LineLen(line int) (int, bool) {
	start, ok := r.LineStart(line)
	if !ok {
		return 0, false
	}
	end, _ := r.LineEnd(line)
	return end - start, true
}

// LineText returns the text of line without its newline.
func (r Rope) LineText(line int) (string, bool) {
	start, ok := r.LineStart(line)
	if !ok {
		return "", false
	}
	end, _ := r.LineEnd(line)
	return r.Slice(start, end), true
}

// OffsetAt converts a line/column position to an offset.
// Returns false if the line does not exist or the column is past its end.
func (r Rope) OffsetAt(p Point) (Offset, bool) {
	if p.Column < 0 {
		return 0, false
	}
	start, ok := r.LineStart(p.Line)
	if !ok {
		return 0, false
	}
	end, _ := r.LineEnd(p.Line)
	if start+p.Column > end {
		return 0, false
	}
	return start + p.Column, true
}

// PointAt converts an offset to a line/column position.
func (r Rope) PointAt(offset Offset) Point {
	offset = r.clamp(offset)
	line := r.LineAt(offset)
	start, _ := r.LineStart(line)
	return Point{Line: line, Column: offset - start}
}

// ByteOffset converts a code point offset to a UTF-8 byte offset.
func (r Rope) ByteOffset(offset Offset) int {
	offset = r.clamp(offset)
	if r.root == nil {
		return 0
	}
	if r.root.summary.IsASCII() {
		return offset
	}
	return r.root.byteOffset(offset)
}

// WriteTo writes the rope's text to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Height returns the height of the rope tree.
// Useful for debugging and testing balance.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
func (r Rope) ChunkCount() int {
	count := 0
	it := r.Chunks()
	for it.Next() {
		count++
	}
	return count
}

// Equals returns true if two ropes contain the same text.
// This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.root == other.root {
		return true
	}
	if r.LenBytes() != other.LenBytes() || r.Len() != other.Len() {
		return false
	}

	a, b := r.Chunks(), other.Chunks()
	var sa, sb string
	for {
		if sa == "" {
			if !a.Next() {
				break
			}
			sa = a.Chunk().String()
		}
		if sb == "" {
			if !b.Next() {
				return false
			}
			sb = b.Chunk().String()
		}
		n := min(len(sa), len(sb))
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
	return sb == "" && !b.Next()
}

func (r Rope) clamp(offset Offset) Offset {
	if offset < 0 {
		return 0
	}
	if n := r.Len(); offset > n {
		return n
	}
	return offset
}
