package buffer

import "github.com/ishibashi-futos/notepad-macos/internal/engine/rope"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithRope starts the buffer from an existing rope, sharing its nodes.
func WithRope(r rope.Rope) Option {
	return func(b *Buffer) {
		b.rope = r
	}
}
