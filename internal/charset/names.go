package charset

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
)

// Name identifies a supported byte encoding.
type Name string

const (
	// UTF8 is UTF-8 (default).
	UTF8 Name = "utf-8"

	// UTF16LE is UTF-16 Little Endian.
	UTF16LE Name = "utf-16le"

	// UTF16BE is UTF-16 Big Endian.
	UTF16BE Name = "utf-16be"

	// ShiftJIS is Shift_JIS.
	ShiftJIS Name = "shift_jis"

	// EUCJP is EUC-JP.
	EUCJP Name = "euc-jp"

	// Latin1 is ISO-8859-1 (Latin-1).
	Latin1 Name = "iso-8859-1"

	// Windows1252 is the Windows 1252 code page.
	Windows1252 Name = "windows-1252"
)

// Names lists every supported encoding.
var Names = []Name{UTF8, UTF16LE, UTF16BE, ShiftJIS, EUCJP, Latin1, Windows1252}

// toggle is the order the encoding switch cycles through.
var toggle = []Name{UTF8, UTF16LE, UTF16BE, ShiftJIS}

// aliases maps short names that are not registered with IANA.
var aliases = map[string]Name{
	"utf8":    UTF8,
	"utf16le": UTF16LE,
	"utf16be": UTF16BE,
	"sjis":    ShiftJIS,
	"eucjp":   EUCJP,
	"latin1":  Latin1,
	"cp1252":  Windows1252,
}

// canonical maps preferred MIME names to supported encodings.
var canonical = map[string]Name{
	"UTF-8":        UTF8,
	"UTF-16LE":     UTF16LE,
	"UTF-16BE":     UTF16BE,
	"Shift_JIS":    ShiftJIS,
	"EUC-JP":       EUCJP,
	"ISO-8859-1":   Latin1,
	"windows-1252": Windows1252,
}

// ParseName resolves an encoding name or IANA alias.
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, n := range Names {
		if key == string(n) {
			return n, nil
		}
	}
	if n, ok := aliases[strings.NewReplacer("-", "", "_", "").Replace(key)]; ok {
		return n, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return "", coreerr.NewDomain(coreerr.KindInvalidOperation, "unknown encoding %q", s)
	}
	if enc != nil {
		if mime, err := ianaindex.MIME.Name(enc); err == nil {
			if n, ok := canonical[mime]; ok {
				return n, nil
			}
		}
	}
	return "", coreerr.NewDomain(coreerr.KindInvalidOperation, "unsupported encoding %q", s)
}

// Valid reports whether n is a supported encoding.
func (n Name) Valid() bool {
	_, ok := codecs[n]
	return ok
}

// Next returns the encoding that follows n in the toggle order. Encodings
// outside the toggle order return UTF8.
func (n Name) Next() Name {
	for i, t := range toggle {
		if t == n {
			return toggle[(i+1)%len(toggle)]
		}
	}
	return UTF8
}

// Label returns the name shown in the status bar.
func (n Name) Label() string {
	switch n {
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16 LE"
	case UTF16BE:
		return "UTF-16 BE"
	case ShiftJIS:
		return "Shift_JIS"
	case EUCJP:
		return "EUC-JP"
	case Latin1:
		return "ISO-8859-1"
	case Windows1252:
		return "Windows-1252"
	default:
		return string(n)
	}
}

// String returns the encoding name.
func (n Name) String() string {
	return string(n)
}

var codecs = map[Name]encoding.Encoding{
	UTF8:        unicode.UTF8,
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	ShiftJIS:    japanese.ShiftJIS,
	EUCJP:       japanese.EUCJP,
	Latin1:      charmap.ISO8859_1,
	Windows1252: charmap.Windows1252,
}

// codec returns the x/text encoding for n.
func codec(n Name) (encoding.Encoding, error) {
	enc, ok := codecs[n]
	if !ok {
		return nil, coreerr.NewDomain(coreerr.KindInvalidOperation, "unsupported encoding %q", string(n))
	}
	return enc, nil
}
