package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/buffer"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/cursor"
)

// Kind classifies an edit command.
type Kind uint8

const (
	KindInsert Kind = iota
	KindDelete
	KindReplace
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Direction records which side of the caret a delete removed text from.
type Direction uint8

const (
	// Backward deletes before the caret (Backspace).
	Backward Direction = iota
	// Forward deletes after the caret (Delete).
	Forward
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Command is a reversible record of one atomic text change. Commands are
// values and are never modified after they are committed; merging two
// commands produces a third.
type Command struct {
	ID        uint64
	Kind      Kind
	Offset    buffer.Offset
	Removed   string
	Inserted  string
	Direction Direction
	Time      time.Time

	SelectionBefore cursor.Selection
	SelectionAfter  cursor.Selection
}

// NewInsert creates a command for text typed or pasted at offset.
func NewInsert(offset buffer.Offset, text string, before, after cursor.Selection) Command {
	return Command{Kind: KindInsert, Offset: offset, Inserted: text, SelectionBefore: before, SelectionAfter: after}
}

// NewDelete creates a command for text removed starting at offset.
func NewDelete(offset buffer.Offset, removed string, dir Direction, before, after cursor.Selection) Command {
	return Command{Kind: KindDelete, Offset: offset, Removed: removed, Direction: dir, SelectionBefore: before, SelectionAfter: after}
}

// NewReplace creates a command that swaps removed for inserted at offset.
func NewReplace(offset buffer.Offset, removed, inserted string, before, after cursor.Selection) Command {
	return Command{Kind: KindReplace, Offset: offset, Removed: removed, Inserted: inserted, SelectionBefore: before, SelectionAfter: after}
}

// Edit returns the buffer edit that applies the command.
func (c Command) Edit() buffer.Edit {
	end := c.Offset + utf8.RuneCountInString(c.Removed)
	return buffer.NewEdit(buffer.NewRange(c.Offset, end), c.Inserted)
}

// Inverse returns the buffer edit that reverts the command.
func (c Command) Inverse() buffer.Edit {
	end := c.Offset + utf8.RuneCountInString(c.Inserted)
	return buffer.NewEdit(buffer.NewRange(c.Offset, end), c.Removed)
}

// Description returns a human-readable description.
func (c Command) Description() string {
	switch c.Kind {
	case KindInsert:
		switch c.Inserted {
		case "\n":
			return "Insert newline"
		case "\t":
			return "Insert tab"
		}
		if n := utf8.RuneCountInString(c.Inserted); n > 20 {
			return fmt.Sprintf("Insert %d characters", n)
		}
		return fmt.Sprintf("Insert %q", c.Inserted)
	case KindDelete:
		n := utf8.RuneCountInString(c.Removed)
		if n == 1 && c.Direction == Backward {
			return "Backspace"
		}
		if n == 1 {
			return "Delete"
		}
		return fmt.Sprintf("Delete %d characters", n)
	default:
		return fmt.Sprintf("Replace %d with %d characters",
			utf8.RuneCountInString(c.Removed), utf8.RuneCountInString(c.Inserted))
	}
}

// merge folds next into c when next continues c on an adjacent range:
// typing forward, backspacing backward, or forward-deleting at a fixed
// caret. Replace commands never merge.
func (c Command) merge(next Command) (Command, bool) {
	if c.Kind != next.Kind {
		return Command{}, false
	}

	merged := c
	merged.SelectionAfter = next.SelectionAfter
	merged.Time = next.Time

	switch c.Kind {
	case KindInsert:
		if next.Offset != c.Offset+utf8.RuneCountInString(c.Inserted) {
			return Command{}, false
		}
		merged.Inserted = c.Inserted + next.Inserted
		return merged, true

	case KindDelete:
		if c.Direction != next.Direction {
			return Command{}, false
		}
		switch {
		case c.Direction == Backward && next.Offset+utf8.RuneCountInString(next.Removed) == c.Offset:
			merged.Offset = next.Offset
			merged.Removed = next.Removed + c.Removed
			return merged, true
		case c.Direction == Forward && next.Offset == c.Offset:
			merged.Removed = c.Removed + next.Removed
			return merged, true
		}
	}
	return Command{}, false
}
