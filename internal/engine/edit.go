package engine

import (
	"unicode/utf8"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/cursor"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/history"
)

// ============================================================================
// Edit Operations
// ============================================================================

// InsertAtSelection inserts text at the caret, or replaces the selected
// range with it. Consecutive inserts with ContinueBurst at adjacent
// offsets undo as one step.
func (d *Document) InsertAtSelection(text string, hint Grouping) (EditOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritableLocked("insert"); err != nil {
		return EditOutcome{}, err
	}
	if !d.sel.IsCaret() {
		return d.replaceLocked(text)
	}
	if text == "" {
		return d.outcomeLocked(false), nil
	}

	before := d.sel
	offset := before.Active
	end, err := d.buf.Insert(offset, text)
	if err != nil {
		return EditOutcome{}, err
	}
	cmd := history.NewInsert(offset, text, before, cursor.Caret(end))
	return d.commitLocked(cmd, hint), nil
}

// DeleteSelection removes the selected range. With a caret it removes one
// unit (see WithDeleteUnit) before the caret for Backward or after it for
// Forward. At the start or end of the document it succeeds without change.
func (d *Document) DeleteSelection(dir Direction, hint Grouping) (EditOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritableLocked("delete"); err != nil {
		return EditOutcome{}, err
	}
	if !d.sel.IsCaret() {
		return d.deleteRangeLocked(d.sel.Range(), dir)
	}

	r := d.buf.Rope()
	caret := d.sel.Active
	rng := Range{Start: caret, End: caret}
	if dir == Backward {
		if caret == 0 {
			return d.outcomeLocked(false), nil
		}
		rng.Start = d.prevBoundary(r, caret)
	} else {
		if caret >= r.Len() {
			return d.outcomeLocked(false), nil
		}
		rng.End = d.nextBoundary(r, caret)
	}

	before := d.sel
	removed, err := d.buf.Delete(rng)
	if err != nil {
		return EditOutcome{}, err
	}
	cmd := history.NewDelete(rng.Start, removed, dir, before, cursor.Caret(rng.Start))
	return d.commitLocked(cmd, hint), nil
}

// ReplaceSelection replaces the selected range (or inserts at the caret).
// It is always a separate undo step.
func (d *Document) ReplaceSelection(text string) (EditOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritableLocked("replace"); err != nil {
		return EditOutcome{}, err
	}
	return d.replaceLocked(text)
}

// SelectedText returns the selected text. A caret-only selection fails
// with an EmptySelection error.
func (d *Document) SelectedText() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.sel.IsCaret() {
		return "", errEmptySelection("copy")
	}
	return d.buf.Slice(d.sel.Range())
}

// Cut removes the selected range and returns its text. A caret-only
// selection fails with an EmptySelection error.
func (d *Document) Cut() (string, EditOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritableLocked("cut"); err != nil {
		return "", EditOutcome{}, err
	}
	if d.sel.IsCaret() {
		return "", EditOutcome{}, errEmptySelection("cut")
	}
	removed, err := d.buf.Slice(d.sel.Range())
	if err != nil {
		return "", EditOutcome{}, err
	}
	out, err := d.deleteRangeLocked(d.sel.Range(), Forward)
	if err != nil {
		return "", EditOutcome{}, err
	}
	return removed, out, nil
}

// Undo reverts the most recent undo step and restores the selection that
// preceded it. An empty history fails with an InvalidOperation error.
func (d *Document) Undo() (EditOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritableLocked("undo"); err != nil {
		return EditOutcome{}, err
	}
	cmd, err := d.history.Undo(d.buf)
	if err != nil {
		return EditOutcome{}, err
	}
	d.sel = cmd.SelectionBefore
	d.version.Add(1)
	return d.outcomeLocked(true), nil
}

// Redo reapplies the most recently undone step and restores the selection
// that followed it. An empty redo stack fails with an InvalidOperation
// error.
func (d *Document) Redo() (EditOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritableLocked("redo"); err != nil {
		return EditOutcome{}, err
	}
	cmd, err := d.history.Redo(d.buf)
	if err != nil {
		return EditOutcome{}, err
	}
	d.sel = cmd.SelectionAfter
	d.version.Add(1)
	return d.outcomeLocked(true), nil
}

// SealUndo ends the current typing burst so the next edit starts a new
// undo step.
func (d *Document) SealUndo() {
	d.history.Seal()
}

// ============================================================================
// Selection
// ============================================================================

// SetSelection replaces the selection. Offsets beyond the document fail
// with an OutOfRange error; they are never clamped. Changing the selection
// ends the current typing burst.
func (d *Document) SetSelection(sel Selection) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := sel.Validate(d.buf.Len()); err != nil {
		return err
	}
	if sel != d.sel {
		d.history.Seal()
	}
	d.sel = sel
	return nil
}

// SelectAll selects the whole document.
func (d *Document) SelectAll() Selection {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sel = cursor.NewSelection(0, d.buf.Len())
	d.history.Seal()
	return d.sel
}

// ============================================================================
// Helpers
// ============================================================================

func (d *Document) checkWritableLocked(op string) error {
	if d.readOnly {
		return errReadOnly(op)
	}
	if d.locked {
		return errLocked(op)
	}
	return nil
}

// replaceLocked swaps the selected range for text as one discrete step.
func (d *Document) replaceLocked(text string) (EditOutcome, error) {
	before := d.sel
	rng := before.Range()
	if rng.IsEmpty() && text == "" {
		return d.outcomeLocked(false), nil
	}
	removed, err := d.buf.Replace(rng, text)
	if err != nil {
		return EditOutcome{}, err
	}
	after := cursor.Caret(rng.Start + utf8.RuneCountInString(text))
	cmd := history.NewReplace(rng.Start, removed, text, before, after)
	return d.commitLocked(cmd, NewAction), nil
}

// deleteRangeLocked removes a non-empty range as one discrete step.
func (d *Document) deleteRangeLocked(rng Range, dir Direction) (EditOutcome, error) {
	before := d.sel
	removed, err := d.buf.Delete(rng)
	if err != nil {
		return EditOutcome{}, err
	}
	cmd := history.NewDelete(rng.Start, removed, dir, before, cursor.Caret(rng.Start))
	out := d.commitLocked(cmd, NewAction)
	d.history.Seal()
	return out, nil
}

// commitLocked records an applied command and advances the document state.
func (d *Document) commitLocked(cmd Command, hint Grouping) EditOutcome {
	d.history.Commit(cmd, hint)
	d.sel = cmd.SelectionAfter
	d.version.Add(1)
	return d.outcomeLocked(true)
}
