package task

import "context"

// Token carries the cancellation state of one unit of work.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewToken creates a token derived from parent. Cancelling parent
// cancels the token.
func NewToken(parent context.Context) *Token {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

// Cancel requests cancellation. It is safe to call more than once.
func (t *Token) Cancel() {
	t.cancel()
}

// Cancelled reports whether cancellation was requested.
func (t *Token) Cancelled() bool {
	return t.ctx.Err() != nil
}

// Err returns nil until the token is cancelled, then the context error.
func (t *Token) Err() error {
	return t.ctx.Err()
}

// Poll is Err under the name work loops use.
func (t *Token) Poll() error {
	return t.ctx.Err()
}

// Context returns the token's context.
func (t *Token) Context() context.Context {
	return t.ctx
}
