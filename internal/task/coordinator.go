package task

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
	"github.com/ishibashi-futos/notepad-macos/internal/fileio"
	"github.com/ishibashi-futos/notepad-macos/internal/search"
)

// DefaultPollBytes is the read and encode window between token polls.
const DefaultPollBytes = 64 << 10

// ErrClosed is reported by units started after Close.
var ErrClosed = errors.New("task coordinator is closed")

// Kind names what a unit does. At most one unit per document and kind is
// in flight.
type Kind string

const (
	KindLoad   Kind = "load"
	KindSave   Kind = "save"
	KindSearch Kind = "search"
)

// Status is the terminal state of a unit.
type Status uint8

const (
	Completed Status = iota
	Failed
	Cancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Versioned reports a document's edit counter.
type Versioned interface {
	Version() uint64
}

// Document is what units need to know about the document they work for.
type Document interface {
	Versioned
	ID() uuid.UUID
}

// Spec describes a unit to start.
type Spec struct {
	Document uuid.UUID
	Kind     Kind

	// Token cancels the unit. It is owned by the caller and required.
	Token *Token

	// Versions, when set, is read at start and finish to mark stale
	// results.
	Versions Versioned
}

// Message is the single terminal report of a unit.
type Message[T any] struct {
	Unit     uuid.UUID
	Document uuid.UUID
	Kind     Kind
	Status   Status

	// Value is set only when Status is Completed.
	Value T

	// Err is a core error when Status is Failed, and the context error
	// when it is Cancelled.
	Err error

	BaseVersion uint64
	Stale       bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for unit diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFS sets the file system used by Load and Save.
func WithFS(fsys fileio.FS) Option {
	return func(c *Coordinator) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}

// WithPollBytes sets the byte window between polls in Load and Save.
func WithPollBytes(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.pollBytes = n
		}
	}
}

// WithSearchPollRunes sets the code point window between polls in Search.
func WithSearchPollRunes(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.searchPoll = n
		}
	}
}

type unitKey struct {
	doc  uuid.UUID
	kind Kind
}

type inflight struct {
	unit  uuid.UUID
	token *Token
}

// Coordinator tracks the units in flight and cancels the ones that have
// been superseded.
//
// Coordinator is safe for concurrent use.
type Coordinator struct {
	logger     *zap.Logger
	fs         fileio.FS
	pollBytes  int
	searchPoll int

	mu     sync.Mutex
	units  map[unitKey]inflight
	active uuid.UUID
	closed bool
	wg     sync.WaitGroup
}

// NewCoordinator creates a coordinator. By default it logs nothing and
// uses the operating system's file system.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		logger:     zap.NewNop(),
		fs:         fileio.NewOSFS(),
		pollBytes:  DefaultPollBytes,
		searchPoll: search.DefaultPollEvery,
		units:      make(map[unitKey]inflight),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run starts fn on its own goroutine. The returned channel receives
// exactly one Message and is then closed. A unit already in flight for
// the same document and kind is cancelled first.
//
// fn must return promptly once poll reports an error. A unit whose token
// was cancelled is reported Cancelled even if fn produced a value. A spec
// without a token is not started and fails with InvalidOperation.
func Run[T any](c *Coordinator, spec Spec, fn func(ctx context.Context, poll func() error) (T, error)) <-chan Message[T] {
	msg := Message[T]{
		Unit:     uuid.New(),
		Document: spec.Document,
		Kind:     spec.Kind,
	}
	tok := spec.Token
	if tok == nil {
		msg.Status = Failed
		msg.Err = coreerr.NewDomain(coreerr.KindInvalidOperation, "%s unit has no cancellation token", spec.Kind)
		ch := make(chan Message[T], 1)
		ch <- msg
		close(ch)
		return ch
	}
	if spec.Versions != nil {
		msg.BaseVersion = spec.Versions.Version()
	}
	ch := make(chan Message[T], 1)

	key := unitKey{doc: spec.Document, kind: spec.Kind}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		tok.Cancel()
		msg.Status = Cancelled
		msg.Err = ErrClosed
		ch <- msg
		close(ch)
		return ch
	}
	if prev, ok := c.units[key]; ok {
		prev.token.Cancel()
		c.logger.Debug("unit superseded",
			zap.Stringer("unit", prev.unit),
			zap.Stringer("document", spec.Document),
			zap.String("kind", string(spec.Kind)),
		)
	}
	c.units[key] = inflight{unit: msg.Unit, token: tok}
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Debug("unit started",
		zap.Stringer("unit", msg.Unit),
		zap.Stringer("document", spec.Document),
		zap.String("kind", string(spec.Kind)),
		zap.Uint64("version", msg.BaseVersion),
	)

	go func() {
		defer c.wg.Done()
		defer close(ch)

		value, err := runSafe(tok, fn)
		c.release(key, msg.Unit)

		switch {
		case tok.Cancelled() || errors.Is(err, context.Canceled):
			msg.Status = Cancelled
			msg.Err = context.Canceled
		case err != nil:
			msg.Status = Failed
			msg.Err = coreerr.From(err)
		default:
			msg.Status = Completed
			msg.Value = value
		}
		if spec.Versions != nil {
			msg.Stale = spec.Versions.Version() != msg.BaseVersion
		}

		fields := []zap.Field{
			zap.Stringer("unit", msg.Unit),
			zap.String("kind", string(msg.Kind)),
			zap.Stringer("status", msg.Status),
			zap.Bool("stale", msg.Stale),
		}
		if msg.Status == Failed {
			fields = append(fields, zap.Error(msg.Err))
		}
		c.logger.Debug("unit finished", fields...)

		ch <- msg
	}()
	return ch
}

// runSafe calls fn and turns a panic into an Unknown system error.
func runSafe[T any](tok *Token, fn func(context.Context, func() error) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = coreerr.NewSystem(coreerr.KindUnknown, false, "task panicked: %v", r)
		}
	}()
	return fn(tok.Context(), tok.Poll)
}

// release forgets a finished unit unless a newer one replaced it.
func (c *Coordinator) release(key unitKey, unit uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.units[key]; ok && cur.unit == unit {
		delete(c.units, key)
	}
}

// Activate makes doc the active document and cancels the units of the
// previously active one.
func (c *Coordinator) Activate(doc uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == doc {
		return
	}
	if c.active != uuid.Nil {
		c.cancelDocumentLocked(c.active)
	}
	c.active = doc
}

// Active returns the active document, or uuid.Nil.
func (c *Coordinator) Active() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// CancelDocument cancels every unit in flight for doc.
func (c *Coordinator) CancelDocument(doc uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelDocumentLocked(doc)
}

func (c *Coordinator) cancelDocumentLocked(doc uuid.UUID) {
	for key, u := range c.units {
		if key.doc == doc {
			u.token.Cancel()
			c.logger.Debug("unit cancelled",
				zap.Stringer("unit", u.unit),
				zap.Stringer("document", doc),
				zap.String("kind", string(key.kind)),
			)
		}
	}
}

// InFlight reports whether a unit of kind is running for doc.
func (c *Coordinator) InFlight(doc uuid.UUID, kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.units[unitKey{doc: doc, kind: kind}]
	return ok
}

// Close cancels every unit and waits for their goroutines to exit. Units
// started afterwards report Cancelled with ErrClosed. It is safe to call
// Close multiple times.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, u := range c.units {
		u.token.Cancel()
	}
	n := len(c.units)
	c.mu.Unlock()

	c.wg.Wait()
	c.logger.Debug("coordinator closed", zap.Int("cancelled", n))
	return nil
}
