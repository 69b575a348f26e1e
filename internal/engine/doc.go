// Package engine provides the editing core of a single text document.
//
// A Document combines the text store, the selection, the undo history, the
// save state and the file encoding behind one API. Edits operate on the
// current selection and report the resulting state:
//
//	doc, _ := engine.New(engine.WithContent("hello"))
//	doc.SetSelection(engine.Selection{Anchor: 0, Active: 5})
//	out, _ := doc.ReplaceSelection("hi")
//	// doc.Text() == "hi", out.Selection is a caret at 2, out.Dirty
//
//	doc.Undo()
//	// doc.Text() == "hello", selection (0,5), doc.Dirty() == false
//
// # Sub-packages
//
//   - rope: persistent B+ tree of text chunks with line and character metrics
//   - buffer: the validated text store built on rope
//   - cursor: anchor/active selections
//   - history: undo/redo stacks with typing-burst coalescing
//   - coreerr: the System/Domain error taxonomy used by every package
//
// # Typing Bursts
//
// Edits take a Grouping hint. Consecutive ContinueBurst inserts at
// adjacent offsets, or consecutive caret deletes in one direction, undo as
// one step. A NewAction hint, SetSelection, Move, SealUndo, Undo and Redo
// all end the burst. ReplaceSelection is always a step of its own.
//
// # Caret Deletes
//
// DeleteSelection with a caret removes one grapheme cluster (WithDeleteUnit
// can switch to single code points) before or after the caret. At the
// start or end of the document it succeeds and reports Changed == false.
//
// # Background Work
//
// Snapshot returns the immutable text with its version; the version only
// grows, so a background result computed from an older version can be
// recognised as stale. BeginSave locks the document against edits until
// FinishSave; ApplyLoad swaps in loaded content and resets history.
//
// # Errors
//
// Every fallible method returns a coreerr value:
//
//   - OutOfRange: an offset or selection outside the document
//   - InvalidState: an edit on a read-only document or during a save
//   - InvalidOperation: undo or redo with nothing to apply, invalid UTF-8
//   - EmptySelection: copy or cut without a selection
package engine
