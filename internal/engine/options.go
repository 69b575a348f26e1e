package engine

import (
	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/history"
)

// DefaultMaxUndoEntries is the undo depth used when none is configured.
const DefaultMaxUndoEntries = history.DefaultMaxEntries

// DeleteUnit selects what a caret-only delete removes.
type DeleteUnit uint8

const (
	// DeleteGrapheme removes one user-perceived character (grapheme
	// cluster), so "e" plus a combining accent goes in one keystroke.
	DeleteGrapheme DeleteUnit = iota

	// DeleteRune removes a single code point.
	DeleteRune
)

// String returns the unit name.
func (u DeleteUnit) String() string {
	if u == DeleteRune {
		return "rune"
	}
	return "grapheme"
}

// ParseDeleteUnit parses "grapheme" or "rune".
func ParseDeleteUnit(s string) (DeleteUnit, bool) {
	switch s {
	case "grapheme", "":
		return DeleteGrapheme, true
	case "rune":
		return DeleteRune, true
	}
	return 0, false
}

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithDescriptor sets the encoding descriptor used when saving.
func WithDescriptor(desc charset.Descriptor) Option {
	return func(d *Document) {
		d.desc = desc
	}
}

// WithPath associates the document with a file path.
func WithPath(path string) Option {
	return func(d *Document) {
		d.path = path
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithDeleteUnit sets what a caret-only delete removes.
func WithDeleteUnit(unit DeleteUnit) Option {
	return func(d *Document) {
		d.deleteUnit = unit
	}
}

// WithReadOnly creates a read-only document.
// Every mutation fails with an InvalidState error.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}
