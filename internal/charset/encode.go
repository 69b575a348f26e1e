package charset

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
)

// Encode converts text to file bytes as described by d.
func Encode(text string, d Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := NewStreamEncoder(&buf, d)
	if err != nil {
		return nil, err
	}
	if err := enc.WriteString(text); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StreamEncoder encodes text piece by piece, so a document can be written
// chunk by chunk without building one large string. Every piece must end
// on a character boundary.
type StreamEncoder struct {
	w       io.Writer
	d       Descriptor
	enc     *encoding.Encoder // nil for UTF-8
	started bool

	// skipLF drops a "\n" that completes a "\r\n" split across pieces.
	skipLF  bool
	chars   int
	written int64
}

// NewStreamEncoder creates an encoder writing to w. An empty encoding
// means UTF-8.
func NewStreamEncoder(w io.Writer, d Descriptor) (*StreamEncoder, error) {
	if d.Encoding == "" {
		d.Encoding = UTF8
	}
	c, err := codec(d.Encoding)
	if err != nil {
		return nil, err
	}
	e := &StreamEncoder{w: w, d: d}
	if d.Encoding != UTF8 {
		e.enc = c.NewEncoder()
	}
	return e, nil
}

// WriteString encodes s. A character the target encoding cannot represent
// fails with an Encoding error naming its character offset counted from
// the first byte written.
func (e *StreamEncoder) WriteString(s string) error {
	if err := e.start(); err != nil {
		return err
	}
	if s == "" {
		return nil
	}

	text := denormalizeLineEndings(e.canonical(s), e.d.LineEnding)
	var out []byte
	if e.enc == nil {
		out = []byte(text)
	} else {
		b, err := e.enc.Bytes([]byte(text))
		if err != nil {
			return e.unrepresentable(s, err)
		}
		out = b
	}

	if err := e.write(out); err != nil {
		return err
	}
	e.chars += utf8.RuneCountInString(s)
	return nil
}

// Close writes the BOM of an empty document. It does not close the
// underlying writer.
func (e *StreamEncoder) Close() error {
	return e.start()
}

// Written returns the number of bytes written so far.
func (e *StreamEncoder) Written() int64 {
	return e.written
}

// Chars returns the number of characters encoded so far.
func (e *StreamEncoder) Chars() int {
	return e.chars
}

// canonical rewrites every line break of s to "\n" when the target has a
// single line ending style. Text decoded as Mixed keeps its raw "\r\n" and
// "\r", which would otherwise survive a conversion.
func (e *StreamEncoder) canonical(s string) string {
	if e.d.LineEnding == Mixed {
		return s
	}
	if e.skipLF && s[0] == '\n' {
		s = s[1:]
	}
	e.skipLF = false
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	e.skipLF = strings.HasSuffix(s, "\r")
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

func (e *StreamEncoder) start() error {
	if e.started {
		return nil
	}
	e.started = true
	if e.d.BOM {
		if bom := bomFor(e.d.Encoding); bom != nil {
			return e.write(bom)
		}
	}
	return nil
}

func (e *StreamEncoder) write(b []byte) error {
	n, err := e.w.Write(b)
	e.written += int64(n)
	return err
}

// unrepresentable locates the first character of s that the encoder
// rejects.
func (e *StreamEncoder) unrepresentable(s string, cause error) error {
	i := 0
	for _, r := range s {
		if _, err := e.enc.String(string(r)); err != nil {
			return coreerr.WrapSystem(coreerr.KindEncoding, false, err,
				"character %q at offset %d cannot be represented in %s", r, e.chars+i, e.d.Encoding.Label())
		}
		i++
	}
	return coreerr.WrapSystem(coreerr.KindEncoding, false, cause, "encode %s", e.d.Encoding.Label())
}
