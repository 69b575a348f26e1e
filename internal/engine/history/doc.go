// Package history provides undo/redo for a document.
//
// Every applied edit is recorded as an immutable Command holding the
// offset, the removed and inserted text, and the selection before and
// after. History keeps two stacks of commands:
//
//	h := history.NewHistory(1000)
//	h.Commit(cmd, history.ContinueBurst)
//	cmd, err := h.Undo(buf)   // buf receives cmd.Inverse()
//	cmd, err = h.Redo(buf)    // buf receives cmd.Edit()
//
// # Bursts
//
// The caller decides what belongs together. A commit with ContinueBurst
// merges into the top command when the burst is still open, the kinds
// match and the ranges touch; NewAction always starts a new step. Seal
// closes the burst explicitly (a caret jump, a save) and Undo and Redo
// close it implicitly.
//
// # Save points
//
// Mark returns a token for the current state and IsAt compares against it,
// which is how a document derives its dirty flag after any mix of edits,
// undos and redos.
package history
