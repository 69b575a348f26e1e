package engine

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/cursor"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/rope"
)

// Motion is a caret movement.
type Motion uint8

const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MoveDocStart
	MoveDocEnd
)

// String returns the motion name.
func (m Motion) String() string {
	switch m {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLineStart:
		return "line-start"
	case MoveLineEnd:
		return "line-end"
	case MoveDocStart:
		return "doc-start"
	case MoveDocEnd:
		return "doc-end"
	default:
		return "unknown"
	}
}

// graphemeWindow bounds how many code points a boundary search reads
// around the caret.
const graphemeWindow = 256

// Move moves the active end of the selection and returns the new
// selection. With extend the anchor stays put. Without it, Left and Right
// on a non-empty selection collapse it to its start or end. Up and Down
// keep the column, clamped to the target line, and do nothing on the
// first or last line. Moving ends the current typing burst.
func (d *Document) Move(m Motion, extend bool) Selection {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.history.Seal()
	sel := d.sel
	if !extend && !sel.IsCaret() {
		switch m {
		case MoveLeft:
			d.sel = sel.CollapseToStart()
			return d.sel
		case MoveRight:
			d.sel = sel.CollapseToEnd()
			return d.sel
		}
	}

	target := motionTarget(d.buf.Rope(), sel.Active, m)
	if extend {
		d.sel = sel.Extend(target)
	} else {
		d.sel = cursor.Caret(target)
	}
	return d.sel
}

func motionTarget(r rope.Rope, off Offset, m Motion) Offset {
	p := r.PointAt(off)
	switch m {
	case MoveLeft:
		return prevGrapheme(r, off)
	case MoveRight:
		return nextGrapheme(r, off)
	case MoveUp:
		if p.Line == 0 {
			return off
		}
		return columnOnLine(r, p.Line-1, p.Column)
	case MoveDown:
		if p.Line+1 >= r.LineCount() {
			return off
		}
		return columnOnLine(r, p.Line+1, p.Column)
	case MoveLineStart:
		start, _ := r.LineStart(p.Line)
		return start
	case MoveLineEnd:
		end, _ := r.LineEnd(p.Line)
		return end
	case MoveDocStart:
		return 0
	case MoveDocEnd:
		return r.Len()
	}
	return off
}

// columnOnLine returns the offset of column on line, clamped to the line.
func columnOnLine(r rope.Rope, line, column int) Offset {
	start, _ := r.LineStart(line)
	n, _ := r.LineLen(line)
	return start + min(column, n)
}

// prevBoundary is the start of the unit a backward caret delete removes.
func (d *Document) prevBoundary(r rope.Rope, off Offset) Offset {
	if d.deleteUnit == DeleteRune {
		return off - 1
	}
	return prevGrapheme(r, off)
}

// nextBoundary is the end of the unit a forward caret delete removes.
func (d *Document) nextBoundary(r rope.Rope, off Offset) Offset {
	if d.deleteUnit == DeleteRune {
		return off + 1
	}
	return nextGrapheme(r, off)
}

// prevGrapheme returns the start of the grapheme cluster ending at off.
// Segmentation starts at the nearest known cluster start at or before
// off-graphemeWindow.
func prevGrapheme(r rope.Rope, off Offset) Offset {
	if off <= 0 {
		return 0
	}
	from := max(0, off-graphemeWindow)
	for !clusterStart(r, from) {
		from--
	}

	last, pos := from, from
	g := uniseg.NewGraphemes(r.Slice(from, off))
	for g.Next() {
		last = pos
		pos += len(g.Runes())
	}
	return last
}

// nextGrapheme returns the end of the grapheme cluster starting at off.
// The window grows until the cluster ends inside it.
func nextGrapheme(r rope.Rope, off Offset) Offset {
	n := r.Len()
	if off >= n {
		return n
	}
	for w := graphemeWindow; ; w *= 2 {
		end := min(n, off+w)
		g := uniseg.NewGraphemes(r.Slice(off, end))
		if !g.Next() {
			return n
		}
		if next := off + len(g.Runes()); next < end || end == n {
			return next
		}
	}
}

// clusterStart reports whether a grapheme cluster is known to start at
// off without segmenting: at either end of the text, next to a line
// break other than inside CR LF, or between two ASCII characters.
func clusterStart(r rope.Rope, off Offset) bool {
	if off <= 0 {
		return true
	}
	prev, _ := r.RuneAt(off - 1)
	cur, ok := r.RuneAt(off)
	switch {
	case !ok:
		return true
	case prev == '\r':
		return cur != '\n'
	case prev == '\n', cur == '\r', cur == '\n':
		return true
	}
	return prev < utf8.RuneSelf && cur < utf8.RuneSelf
}
