package charset

import (
	"strings"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
)

// LineEnding represents the line ending style of a file.
type LineEnding string

const (
	// LF is Unix-style line ending (\n).
	LF LineEnding = "lf"

	// CRLF is Windows-style line ending (\r\n).
	CRLF LineEnding = "crlf"

	// CR is old Mac-style line ending (\r).
	CR LineEnding = "cr"

	// Mixed indicates more than one style. Text with mixed endings is kept
	// verbatim.
	Mixed LineEnding = "mixed"
)

// ParseLineEnding parses "lf", "crlf" or "cr" in any case.
func ParseLineEnding(s string) (LineEnding, error) {
	switch le := LineEnding(strings.ToLower(strings.TrimSpace(s))); le {
	case LF, CRLF, CR:
		return le, nil
	}
	return "", coreerr.NewDomain(coreerr.KindInvalidOperation, "unknown line ending %q", s)
}

// Label returns the name shown in the status bar.
func (le LineEnding) Label() string {
	switch le {
	case LF:
		return "LF"
	case CRLF:
		return "CRLF"
	case CR:
		return "CR"
	case Mixed:
		return "Mixed"
	default:
		return string(le)
	}
}

// Sequence returns the bytes written for a newline, or "\n" for Mixed.
func (le LineEnding) Sequence() string {
	switch le {
	case CRLF:
		return "\r\n"
	case CR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding reports the line ending style used in text. Text
// without any line break is LF.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	styles := 0
	for _, n := range []int{lf, crlf, cr} {
		if n > 0 {
			styles++
		}
	}
	switch {
	case styles > 1:
		return Mixed
	case crlf > 0:
		return CRLF
	case cr > 0:
		return CR
	default:
		return LF
	}
}

// normalizeLineEndings rewrites a single-style text to use "\n". Mixed
// text is returned unchanged.
func normalizeLineEndings(text string, le LineEnding) string {
	switch le {
	case CRLF:
		return strings.ReplaceAll(text, "\r\n", "\n")
	case CR:
		return strings.ReplaceAll(text, "\r", "\n")
	default:
		return text
	}
}

// denormalizeLineEndings converts "\n" back to the recorded style.
func denormalizeLineEndings(text string, le LineEnding) string {
	if le != CRLF && le != CR {
		return text
	}
	return strings.ReplaceAll(text, "\n", le.Sequence())
}
