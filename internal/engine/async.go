package engine

import (
	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/rope"
)

// Snapshot is an immutable view of a document, safe to hand to a
// background goroutine while the document keeps changing.
type Snapshot struct {
	Rope    rope.Rope
	Version uint64

	// Mark identifies the undo state the text corresponds to; a save of
	// this snapshot makes Mark the new save point.
	Mark uint64
}

// LoadResult is the content of a file read by a background load.
type LoadResult struct {
	Path       string
	Text       rope.Rope
	Descriptor charset.Descriptor
}

// SaveResult reports a completed background save.
type SaveResult struct {
	Path       string
	Descriptor charset.Descriptor
	Version    uint64
	Mark       uint64
	Bytes      int64
}

// Snapshot returns the current text with its version and undo mark.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

func (d *Document) snapshotLocked() Snapshot {
	return Snapshot{
		Rope:    d.buf.Rope(),
		Version: d.version.Load(),
		Mark:    d.history.Mark(),
	}
}

// Lock makes every mutation fail with an InvalidState error until Unlock.
// Locking a locked document fails the same way.
func (d *Document) Lock() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locked {
		return errLocked("lock")
	}
	d.locked = true
	return nil
}

// Unlock releases Lock.
func (d *Document) Unlock() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locked = false
}

// BeginSave locks the document and returns the snapshot to write.
func (d *Document) BeginSave() (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locked {
		return Snapshot{}, errLocked("save")
	}
	d.locked = true
	d.history.Seal()
	return d.snapshotLocked(), nil
}

// FinishSave unlocks the document. When err is nil the saved path,
// descriptor and mark become the document's save point; otherwise the
// document stays dirty. err is the save outcome, not a failure of
// FinishSave, which fails only when no save is in progress.
func (d *Document) FinishSave(res SaveResult, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.locked {
		return errNotLocked("finish save")
	}
	d.locked = false
	if err != nil {
		return nil
	}
	d.path = res.Path
	d.desc = res.Descriptor
	d.saveMark = res.Mark
	return nil
}

// ApplyLoad replaces the whole content with a loaded file. History is
// cleared, the document becomes clean and the selection is clamped to the
// new text.
func (d *Document) ApplyLoad(res LoadResult) (EditOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locked {
		return EditOutcome{}, errLocked("load")
	}

	d.buf.Reset(res.Text)
	d.history.Clear()
	d.saveMark = d.history.Mark()
	d.sel = d.sel.Clamp(res.Text.Len())
	d.path = res.Path
	d.desc = res.Descriptor
	d.version.Add(1)
	return d.outcomeLocked(true), nil
}
