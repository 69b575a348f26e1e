package rope

import "unicode/utf8"

// chunkIterFrame is a position in the tree traversal.
type chunkIterFrame struct {
	node *Node
	idx  int // next child (internal) or chunk (leaf) to visit
}

// ChunkIterator iterates over chunks in a rope in text order.
type ChunkIterator struct {
	stack  []chunkIterFrame
	chunk  Chunk
	offset Offset
	next   Offset
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{stack: make([]chunkIterFrame, 0, 8)}
	if r.root != nil {
		it.stack = append(it.stack, chunkIterFrame{node: r.root})
	}
	return it
}

// Next advances to the next chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		node := frame.node

		if node.IsLeaf() {
			if frame.idx < len(node.chunks) {
				it.chunk = node.chunks[frame.idx]
				frame.idx++
				it.offset = it.next
				it.next += it.chunk.Chars()
				return true
			}
		} else if frame.idx < len(node.children) {
			child := node.children[frame.idx]
			frame.idx++
			it.stack = append(it.stack, chunkIterFrame{node: child})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the character offset of the start of the current chunk.
func (it *ChunkIterator) Offset() Offset {
	return it.offset
}

// RuneIterator iterates over code points in a rope.
type RuneIterator struct {
	chunks *ChunkIterator
	data   string
	pos    int
	offset Offset
	cur    rune
}

// Runes returns an iterator over all code points in the rope.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{chunks: r.Chunks(), offset: -1}
}

// RunesFrom returns an iterator positioned before the code point at offset.
func (r Rope) RunesFrom(offset Offset) *RuneIterator {
	offset = r.clamp(offset)
	_, right := split(r.root, offset)
	it := Rope{root: right}.Runes()
	it.offset = offset - 1
	return it
}

// Next advances to the next code point.
func (it *RuneIterator) Next() bool {
	for it.pos >= len(it.data) {
		if !it.chunks.Next() {
			return false
		}
		it.data = it.chunks.Chunk().String()
		it.pos = 0
	}
	r, size := utf8.DecodeRuneInString(it.data[it.pos:])
	it.cur = r
	it.pos += size
	it.offset++
	return true
}

// Rune returns the current code point.
func (it *RuneIterator) Rune() rune {
	return it.cur
}

// Offset returns the character offset of the current code point.
func (it *RuneIterator) Offset() Offset {
	return it.offset
}

// LineIterator iterates over lines in a rope, without their newlines.
type LineIterator struct {
	rope  Rope
	line  int
	start Offset
	text  string
}

// Lines returns an iterator over all lines in the rope.
// An empty rope yields one empty line.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r, line: -1}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.line+1 >= it.rope.LineCount() {
		return false
	}
	it.line++
	it.start, _ = it.rope.LineStart(it.line)
	it.text, _ = it.rope.LineText(it.line)
	return true
}

// Text returns the text of the current line.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the current line number (0-indexed).
func (it *LineIterator) Line() int {
	return it.line
}

// Offset returns the character offset where the current line starts.
func (it *LineIterator) Offset() Offset {
	return it.start
}
