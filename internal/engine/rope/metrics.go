package rope

import "unicode/utf8"

// Offset is a position in the rope measured in Unicode scalar values
// (code points) from the start of the text.
type Offset = int

// Point is a line/column position. Both are 0-indexed and the column is
// measured in code points.
type Point struct {
	Line   int
	Column int
}

// TextSummary holds aggregated metrics for a text span.
// Summaries form a monoid under Add, which lets every node cache the
// metrics of its whole subtree.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the code point count.
	Chars int

	// Lines is the number of '\n' characters.
	Lines int

	// UTF16Units is the UTF-16 code unit count.
	UTF16Units int

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII, so byte and character
	// offsets coincide.
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains '\n'.
	FlagHasNewlines

	// FlagHasCR indicates the text contains '\r'.
	FlagHasCR
)

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes:      s.Bytes + other.Bytes,
		Chars:      s.Chars + other.Chars,
		Lines:      s.Lines + other.Lines,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		Flags:      s.Flags & other.Flags & FlagASCII,
	}
	result.Flags |= (s.Flags | other.Flags) &^ FlagASCII
	return result
}

// IsASCII reports whether byte and character offsets coincide.
func (s TextSummary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: len(s), Flags: FlagASCII}
	if len(s) == 0 {
		return sum
	}

	for _, r := range s {
		sum.Chars++
		if r >= 0x10000 {
			sum.UTF16Units += 2
		} else {
			sum.UTF16Units++
		}
		if r >= utf8.RuneSelf {
			sum.Flags &^= FlagASCII
		}
		switch r {
		case '\n':
			sum.Lines++
			sum.Flags |= FlagHasNewlines
		case '\r':
			sum.Flags |= FlagHasCR
		}
	}
	return sum
}

// charToByte returns the byte index of the n-th code point of s.
// n must be in [0, RuneCount(s)].
func charToByte(s string, n int) int {
	if n <= 0 {
		return 0
	}
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}

// countNewlines counts '\n' in s.
func countNewlines(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
		}
	}
	return count
}

// nthNewline returns the character index just after the n-th (1-based)
// newline of s, or -1 when s has fewer newlines.
func nthNewline(s string, n int) int {
	chars := 0
	for _, r := range s {
		chars++
		if r == '\n' {
			n--
			if n == 0 {
				return chars
			}
		}
	}
	return -1
}
