package cursor

import (
	"fmt"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/buffer"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
)

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Offset is an alias for buffer.Offset.
type Offset = buffer.Offset

// Selection represents a range of selected text.
// Anchor is where the selection started; Active is the moving end, where
// typing occurs. When Anchor == Active the selection is a caret.
// Selection is an immutable value type.
type Selection struct {
	Anchor Offset
	Active Offset
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active Offset) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// Caret creates a selection with no extent at offset.
func Caret(offset Offset) Selection {
	return Selection{Anchor: offset, Active: offset}
}

// FromRange creates a forward selection covering r.
func FromRange(r Range) Selection {
	return Selection{Anchor: r.Start, Active: r.End}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsCaret() {
		return fmt.Sprintf("caret(%d)", s.Active)
	}
	return fmt.Sprintf("(%d,%d)", s.Anchor, s.Active)
}

// IsCaret returns true if the selection has no extent.
func (s Selection) IsCaret() bool {
	return s.Anchor == s.Active
}

// Len returns the number of selected characters.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Offset {
	return min(s.Anchor, s.Active)
}

// End returns the upper bound of the selection.
func (s Selection) End() Offset {
	return max(s.Anchor, s.Active)
}

// IsForward returns true if the selection extends forward (active >= anchor).
func (s Selection) IsForward() bool {
	return s.Active >= s.Anchor
}

// Extend returns a new selection with the active end moved to offset.
// The anchor remains fixed.
func (s Selection) Extend(offset Offset) Selection {
	return Selection{Anchor: s.Anchor, Active: offset}
}

// MoveTo returns a caret at offset.
func (s Selection) MoveTo(offset Offset) Selection {
	return Caret(offset)
}

// Collapse collapses the selection to a caret at the active end.
func (s Selection) Collapse() Selection {
	return Caret(s.Active)
}

// CollapseToStart collapses the selection to its start position.
func (s Selection) CollapseToStart() Selection {
	return Caret(s.Start())
}

// CollapseToEnd collapses the selection to its end position.
func (s Selection) CollapseToEnd() Selection {
	return Caret(s.End())
}

// Contains returns true if the given offset is within the selection.
// A caret contains nothing.
func (s Selection) Contains(offset Offset) bool {
	return offset >= s.Start() && offset < s.End()
}

// Validate checks both ends against a text of length n.
// Out-of-range selections are an error, never adjusted.
func (s Selection) Validate(n int) error {
	if s.Anchor < 0 || s.Anchor > n || s.Active < 0 || s.Active > n {
		return coreerr.OutOfRange("selection %s outside [0, %d]", s, n)
	}
	return nil
}

// Clamp pins both ends into [0, n]. It is the clamp policy applied only
// when a document's whole text is replaced, such as after a load.
func (s Selection) Clamp(n int) Selection {
	clamp := func(o Offset) Offset { return min(max(o, 0), n) }
	return Selection{Anchor: clamp(s.Anchor), Active: clamp(s.Active)}
}
