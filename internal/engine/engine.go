package engine

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/buffer"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/cursor"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/history"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/rope"
)

// Re-export commonly used types for convenience.
type (
	// Offset is a code point position in the document.
	Offset = buffer.Offset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a code point range in the document.
	Range = buffer.Range

	// Selection represents the anchor/active pair of the caret.
	Selection = cursor.Selection

	// Grouping tells whether an edit may merge into the current undo step.
	Grouping = history.Grouping

	// Direction is the side of the caret a caret-only delete removes.
	Direction = history.Direction

	// Command is an undoable edit command.
	Command = history.Command
)

// Re-export constants.
const (
	NewAction     = history.NewAction
	ContinueBurst = history.ContinueBurst

	Backward = history.Backward
	Forward  = history.Forward
)

// UntitledName is the title of a document without a path.
const UntitledName = "Untitled"

// EditOutcome describes the document state after an edit.
type EditOutcome struct {
	Selection Selection
	Dirty     bool
	Version   uint64

	// Changed is false when the call succeeded without touching the text,
	// e.g. backspace at the start of the document.
	Changed bool
}

// Document is one open text document: its text, selection, undo history,
// save state and encoding.
//
// A Document is driven by a single caller. Background work reads it only
// through Snapshot and Version, both of which are safe from any goroutine.
type Document struct {
	mu sync.RWMutex

	id      uuid.UUID
	buf     *buffer.Buffer
	sel     Selection
	history *history.History

	version  atomic.Uint64
	saveMark uint64
	locked   bool

	desc charset.Descriptor
	path string

	// Configuration
	maxUndoEntries int
	deleteUnit     DeleteUnit
	readOnly       bool

	// Initialization
	initContent string
}

// New creates a new Document with the given options. Content that is not
// valid UTF-8 fails with an InvalidOperation error.
func New(opts ...Option) (*Document, error) {
	d := &Document{
		id:             uuid.New(),
		desc:           charset.DefaultDescriptor(),
		maxUndoEntries: DefaultMaxUndoEntries,
	}

	for _, opt := range opts {
		opt(d)
	}

	buf, err := buffer.NewBufferFromString(d.initContent)
	if err != nil {
		return nil, err
	}
	d.buf = buf
	d.initContent = ""
	d.history = history.NewHistory(d.maxUndoEntries)
	d.saveMark = d.history.Mark()
	return d, nil
}

// ============================================================================
// Read Operations
// ============================================================================

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Text returns the full document content.
// For large documents, prefer Snapshot and the rope iterators.
func (d *Document) Text() string {
	return d.buf.Text()
}

// Len returns the number of code points in the document.
func (d *Document) Len() Offset {
	return d.buf.Len()
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.buf.LineCount()
}

// LineAt returns the 0-indexed line containing offset.
func (d *Document) LineAt(offset Offset) (int, error) {
	return d.buf.LineAt(offset)
}

// LineText returns the text of a line without its newline.
func (d *Document) LineText(line int) (string, error) {
	return d.buf.LineText(line)
}

// OffsetAt converts a line/column position to an offset.
func (d *Document) OffsetAt(line, column int) (Offset, error) {
	return d.buf.OffsetAt(line, column)
}

// PointAt converts an offset to a line/column position.
func (d *Document) PointAt(offset Offset) (Point, error) {
	return d.buf.PointAt(offset)
}

// Slice returns the text in r.
func (d *Document) Slice(r Range) (string, error) {
	return d.buf.Slice(r)
}

// Selection returns the current selection.
func (d *Document) Selection() Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sel
}

// Caret returns the line/column of the active end of the selection.
func (d *Document) Caret() Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, _ := d.buf.PointAt(d.sel.Active)
	return p
}

// Version returns the edit counter. It is safe to call from any goroutine.
func (d *Document) Version() uint64 {
	return d.version.Load()
}

// Dirty reports whether the text differs from the last save point.
func (d *Document) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirtyLocked()
}

func (d *Document) dirtyLocked() bool {
	return !d.history.IsAt(d.saveMark)
}

// Locked reports whether a save is in progress.
func (d *Document) Locked() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.locked
}

// ReadOnly reports whether the document rejects edits.
func (d *Document) ReadOnly() bool {
	return d.readOnly
}

// Descriptor returns the encoding used when saving.
func (d *Document) Descriptor() charset.Descriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.desc
}

// SetDescriptor changes the encoding used by the next save.
func (d *Document) SetDescriptor(desc charset.Descriptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.desc = desc
}

// Path returns the file path, or "" for a new document.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Title returns the file name, or "Untitled", followed by "*" when the
// document has unsaved changes.
func (d *Document) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name := UntitledName
	if d.path != "" {
		name = filepath.Base(d.path)
	}
	if d.dirtyLocked() {
		name += "*"
	}
	return name
}

// CanUndo returns true if undo is available.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// UndoCount returns the number of undo steps available.
func (d *Document) UndoCount() int {
	return d.history.UndoCount()
}

// RedoCount returns the number of redo steps available.
func (d *Document) RedoCount() int {
	return d.history.RedoCount()
}

// Rope returns the current text as an immutable rope.
func (d *Document) Rope() rope.Rope {
	return d.buf.Rope()
}

// outcomeLocked reports the current state. The caller holds d.mu.
func (d *Document) outcomeLocked(changed bool) EditOutcome {
	return EditOutcome{
		Selection: d.sel,
		Dirty:     d.dirtyLocked(),
		Version:   d.version.Load(),
		Changed:   changed,
	}
}
