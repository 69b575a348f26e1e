package charset

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
)

// PollWindow is the number of input bytes converted between two calls of
// a Poll function.
const PollWindow = 64 << 10

// Poll is called periodically during long conversions. A non-nil error
// aborts the conversion and is returned unchanged.
type Poll func() error

func noPoll() error { return nil }

// BOM (Byte Order Mark) constants
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Descriptor records how a file's bytes map to editor text.
type Descriptor struct {
	Encoding   Name
	BOM        bool
	LineEnding LineEnding
}

// DefaultDescriptor returns UTF-8 without BOM and with LF line endings.
func DefaultDescriptor() Descriptor {
	return Descriptor{Encoding: UTF8, LineEnding: LF}
}

// String returns a status-bar description such as "UTF-8 BOM CRLF".
func (d Descriptor) String() string {
	s := d.Encoding.Label()
	if d.BOM {
		s += " BOM"
	}
	if d.LineEnding != "" {
		s += " " + d.LineEnding.Label()
	}
	return s
}

// Decoded is the result of decoding a file.
type Decoded struct {
	// Text is the decoded text with line endings normalized to "\n",
	// unless Descriptor.LineEnding is Mixed.
	Text       string
	Descriptor Descriptor
}

// Decode converts file bytes to text. When declared is nil the encoding
// is detected.
func Decode(data []byte, declared *Name) (Decoded, error) {
	return DecodeWithPoll(data, declared, nil)
}

// DecodeWithPoll is Decode with poll called once per PollWindow bytes.
//
// Detection tries, in order: a byte order mark, UTF-8 without NUL bytes,
// UTF-16 judged by where NUL bytes fall, any other UTF-8, Shift_JIS and
// EUC-JP. Input matching none of them fails with an Encoding error naming
// the first byte that is not valid UTF-8.
func DecodeWithPoll(data []byte, declared *Name, poll Poll) (Decoded, error) {
	if poll == nil {
		poll = noPoll
	}
	if declared != nil {
		return decodeAs(data, *declared, poll)
	}

	if name, size := sniffBOM(data); size > 0 {
		return decodeAs(data, name, poll)
	}

	badUTF8, err := invalidUTF8(data, poll)
	if err != nil {
		return Decoded{}, err
	}
	if badUTF8 < 0 && bytes.IndexByte(data, 0) < 0 {
		return finish(string(data), UTF8, false), nil
	}

	if name, ok := sniffUTF16(data); ok {
		text, bad, err := decodeBody(data, name, poll)
		if err != nil {
			return Decoded{}, err
		}
		if bad < 0 {
			return finish(text, name, false), nil
		}
	}

	if badUTF8 < 0 {
		return finish(string(data), UTF8, false), nil
	}

	for _, name := range []Name{ShiftJIS, EUCJP} {
		text, bad, err := decodeBody(data, name, poll)
		if err != nil {
			return Decoded{}, err
		}
		if bad < 0 {
			return finish(text, name, false), nil
		}
	}
	return Decoded{}, coreerr.NewSystem(coreerr.KindEncoding, false,
		"cannot detect encoding: invalid UTF-8 at byte offset %d", badUTF8)
}

// decodeAs decodes data strictly as name, accepting a matching BOM.
func decodeAs(data []byte, name Name, poll Poll) (Decoded, error) {
	if _, err := codec(name); err != nil {
		return Decoded{}, err
	}
	body, bom := stripBOM(data, name)
	text, bad, err := decodeBody(body, name, poll)
	if err != nil {
		return Decoded{}, err
	}
	if bad >= 0 {
		return Decoded{}, coreerr.NewSystem(coreerr.KindEncoding, false,
			"invalid %s byte sequence at offset %d", name.Label(), len(data)-len(body)+bad)
	}
	return finish(text, name, bom), nil
}

func finish(text string, name Name, bom bool) Decoded {
	le := DetectLineEnding(text)
	return Decoded{
		Text:       normalizeLineEndings(text, le),
		Descriptor: Descriptor{Encoding: name, BOM: bom, LineEnding: le},
	}
}

// decodeBody decodes body as name. It returns the byte offset of the first
// invalid sequence, or -1 when body is valid.
func decodeBody(body []byte, name Name, poll Poll) (string, int, error) {
	switch name {
	case UTF8:
		bad, err := invalidUTF8(body, poll)
		if err != nil || bad >= 0 {
			return "", bad, err
		}
		return string(body), -1, nil

	case UTF16LE, UTF16BE:
		bad, err := invalidUTF16(body, byteOrder(name), poll)
		if err != nil || bad >= 0 {
			return "", bad, err
		}
	}

	enc, err := codec(name)
	if err != nil {
		return "", -1, err
	}
	text, err := transformAll(enc.NewDecoder(), body, poll)
	if err != nil {
		return "", -1, err
	}
	// The legacy decoders substitute U+FFFD for invalid input, and none
	// of them can encode U+FFFD itself.
	if i := strings.IndexRune(text, utf8.RuneError); i >= 0 && name != UTF16LE && name != UTF16BE {
		prefix, err := enc.NewEncoder().String(text[:i])
		if err != nil {
			return "", i, nil
		}
		return "", len(prefix), nil
	}
	if name != UTF16LE && name != UTF16BE {
		bad, err := nonCanonical(enc, text, body, poll)
		if err != nil || bad >= 0 {
			return "", bad, err
		}
	}
	return text, -1, nil
}

// nonCanonical returns the byte offset of the first character of body
// that does not encode back to the same bytes, or -1. Shift_JIS has
// duplicate codes (NEC row 13 against JIS row 2) that decode to the same
// character; accepting them would rewrite the file on an unmodified save.
func nonCanonical(enc encoding.Encoding, text string, body []byte, poll Poll) (int, error) {
	re, err := transformAll(enc.NewEncoder(), []byte(text), poll)
	if err == nil && re == string(body) {
		return -1, nil
	}
	if _, ok := coreerr.As(err); err != nil && !ok {
		return -1, err
	}

	e := enc.NewEncoder()
	var buf [utf8.UTFMax]byte
	pos := 0
	for _, r := range text {
		b, err := e.Bytes(buf[:utf8.EncodeRune(buf[:], r)])
		if err != nil || !bytes.HasPrefix(body[pos:], b) {
			return pos, nil
		}
		pos += len(b)
	}
	return pos, nil
}

// transformAll runs t over src, calling poll before each window.
func transformAll(t transform.Transformer, src []byte, poll Poll) (string, error) {
	r := transform.NewReader(bytes.NewReader(src), t)
	var sb strings.Builder
	sb.Grow(len(src))
	buf := make([]byte, PollWindow)
	for {
		if err := poll(); err != nil {
			return "", err
		}
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", coreerr.WrapSystem(coreerr.KindEncoding, false, err, "decode")
		}
	}
}

// invalidUTF8 returns the offset of the first byte that does not start a
// valid UTF-8 sequence, or -1.
func invalidUTF8(b []byte, poll Poll) (int, error) {
	next := 0
	for i := 0; i < len(b); {
		if i >= next {
			if err := poll(); err != nil {
				return -1, err
			}
			next = i + PollWindow
		}
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i, nil
		}
		i += size
	}
	return -1, nil
}

// invalidUTF16 returns the offset of the first unpaired surrogate or odd
// trailing byte, or -1.
func invalidUTF16(b []byte, order binary.ByteOrder, poll Poll) (int, error) {
	n := len(b) &^ 1
	next := 0
	for i := 0; i < n; i += 2 {
		if i >= next {
			if err := poll(); err != nil {
				return -1, err
			}
			next = i + PollWindow
		}
		u := order.Uint16(b[i:])
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+4 > n {
				return i, nil
			}
			if v := order.Uint16(b[i+2:]); v < 0xDC00 || v > 0xDFFF {
				return i, nil
			}
			i += 2
		case u >= 0xDC00 && u <= 0xDFFF:
			return i, nil
		}
	}
	if len(b) != n {
		return n, nil
	}
	return -1, nil
}

func byteOrder(name Name) binary.ByteOrder {
	if name == UTF16BE {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// sniffBOM returns the encoding announced by a leading BOM and its size.
func sniffBOM(data []byte) (Name, int) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8, len(bomUTF8)
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE, len(bomUTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE, len(bomUTF16BE)
	}
	return "", 0
}

// stripBOM removes a BOM matching name.
func stripBOM(data []byte, name Name) ([]byte, bool) {
	if bom := bomFor(name); bom != nil && bytes.HasPrefix(data, bom) {
		return data[len(bom):], true
	}
	return data, false
}

func bomFor(name Name) []byte {
	switch name {
	case UTF8:
		return bomUTF8
	case UTF16LE:
		return bomUTF16LE
	case UTF16BE:
		return bomUTF16BE
	}
	return nil
}

// sniffUTF16 guesses a UTF-16 byte order from the positions of NUL bytes
// in the first few kilobytes. Mostly-ASCII UTF-16 has a NUL in every
// other byte.
func sniffUTF16(data []byte) (Name, bool) {
	sample := data[:min(len(data), 4096)]
	pairs := len(sample) / 2
	if pairs == 0 {
		return "", false
	}
	var even, odd int
	for i := 0; i+1 < len(sample); i += 2 {
		if sample[i] == 0 {
			even++
		}
		if sample[i+1] == 0 {
			odd++
		}
	}
	switch {
	case odd*4 >= pairs && even*4 < odd:
		return UTF16LE, true
	case even*4 >= pairs && odd*4 < even:
		return UTF16BE, true
	}
	return "", false
}

// IsBinary attempts to detect if content is binary (not text).
// Uses heuristics: presence of null bytes, high ratio of non-printable
// characters. Content that carries a BOM or looks like UTF-16 is text.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if _, n := sniffBOM(content); n > 0 {
		return false
	}
	if _, ok := sniffUTF16(content); ok {
		return false
	}

	sample := content[:min(len(content), 8192)]
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.1
}
