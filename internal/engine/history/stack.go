package history

import (
	"sync"
	"time"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/buffer"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
)

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 1000

// Grouping is the caller's hint about how a new command relates to the
// previous one.
type Grouping uint8

const (
	// NewAction starts a new undo step.
	NewAction Grouping = iota
	// ContinueBurst asks to merge into the current step when possible.
	ContinueBurst
)

// Target is the text store that undo and redo apply edits to.
type Target interface {
	ApplyEdit(edit buffer.Edit) (buffer.EditResult, error)
}

// History manages the undo and redo stacks of one document.
type History struct {
	mu sync.Mutex

	undoStack []Command
	redoStack []Command

	// sealed ends the current burst; the next commit never merges.
	sealed bool

	// base is the mark reported when the undo stack is empty. It becomes
	// the ID of the newest dropped command once the depth limit trims the
	// stack, so an emptied stack no longer claims to be the original state.
	base uint64

	nextID     uint64
	maxEntries int
	now        func() time.Time
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
		sealed:     true,
		now:        time.Now,
	}
}

// Commit records an applied command and clears the redo stack. With
// ContinueBurst the command is merged into the top of the undo stack when
// the burst is open, the kinds match and the ranges are adjacent. The
// stored command is returned.
func (h *History) Commit(cmd Command, hint Grouping) Command {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	cmd.ID = h.nextID
	if cmd.Time.IsZero() {
		cmd.Time = h.now()
	}
	h.redoStack = nil

	if hint == ContinueBurst && !h.sealed && len(h.undoStack) > 0 {
		top := h.undoStack[len(h.undoStack)-1]
		if merged, ok := top.merge(cmd); ok {
			merged.ID = cmd.ID
			h.undoStack[len(h.undoStack)-1] = merged
			return merged
		}
	}

	h.undoStack = append(h.undoStack, cmd)
	h.sealed = cmd.Kind == KindReplace
	h.trimLocked()
	return cmd
}

// trimLocked enforces maxEntries, dropping the oldest commands first.
func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.base = h.undoStack[excess-1].ID
		h.undoStack = append([]Command(nil), h.undoStack[excess:]...)
	}
}

// Seal ends the current burst so the next commit starts a new step.
func (h *History) Seal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sealed = true
}

// Undo reverts the top command on target and moves it to the redo stack.
// The returned command lets the caller restore SelectionBefore.
// The lock is released while the target applies the edit.
func (h *History) Undo(target Target) (Command, error) {
	h.mu.Lock()
	h.sealed = true
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return Command{}, coreerr.NewDomain(coreerr.KindInvalidOperation, "nothing to undo")
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if _, err := target.ApplyEdit(cmd.Inverse()); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, cmd)
		h.mu.Unlock()
		return Command{}, err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, cmd)
	h.mu.Unlock()
	return cmd, nil
}

// Redo reapplies the most recently undone command on target.
// The returned command lets the caller restore SelectionAfter.
func (h *History) Redo(target Target) (Command, error) {
	h.mu.Lock()
	h.sealed = true
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return Command{}, coreerr.NewDomain(coreerr.KindInvalidOperation, "nothing to redo")
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if _, err := target.ApplyEdit(cmd.Edit()); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, cmd)
		h.mu.Unlock()
		return Command{}, err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, cmd)
	h.mu.Unlock()
	return cmd, nil
}

// Mark identifies the current state: the ID of the command on top of the
// undo stack. Record it at a save point and compare later with IsAt.
func (h *History) Mark() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.markLocked()
}

func (h *History) markLocked() uint64 {
	if len(h.undoStack) == 0 {
		return h.base
	}
	return h.undoStack[len(h.undoStack)-1].ID
}

// IsAt reports whether the history is back at the state recorded by mark.
func (h *History) IsAt(mark uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.markLocked() == mark
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns the next command to undo without removing it.
func (h *History) PeekUndo() (Command, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return Command{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo returns the next command to redo without removing it.
func (h *History) PeekRedo() (Command, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redoStack) == 0 {
		return Command{}, false
	}
	return h.redoStack[len(h.redoStack)-1], true
}

// Clear removes all undo/redo history. The next mark differs from every
// mark handed out before.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.sealed = true
	h.nextID++
	h.base = h.nextID
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = n
	h.trimLocked()
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
