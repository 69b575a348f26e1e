package search

import "github.com/ishibashi-futos/notepad-macos/internal/engine/rope"

// MatchIndex returns the 1-based position of the match to report as
// current for a caret, as in a "3/10" status display: the match containing
// the caret, else the first match after it, else the first match. It
// returns 0 when there are no matches or queryLen is 0.
func MatchIndex(matches []rope.Offset, caret rope.Offset, queryLen int) int {
	if len(matches) == 0 || queryLen <= 0 {
		return 0
	}
	for i, pos := range matches {
		if caret >= pos && caret < pos+queryLen {
			return i + 1
		}
	}
	for i, pos := range matches {
		if pos > caret {
			return i + 1
		}
	}
	return 1
}

// NextMatch returns the index of the first match starting at or after
// from, wrapping to the first match. ok is false when there are no
// matches.
func NextMatch(matches []rope.Offset, from rope.Offset) (index int, ok bool) {
	if len(matches) == 0 {
		return 0, false
	}
	for i, pos := range matches {
		if pos >= from {
			return i, true
		}
	}
	return 0, true
}

// PrevMatch returns the index of the last match starting before before,
// wrapping to the last match. ok is false when there are no matches.
func PrevMatch(matches []rope.Offset, before rope.Offset) (index int, ok bool) {
	if len(matches) == 0 {
		return 0, false
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i] < before {
			return i, true
		}
	}
	return len(matches) - 1, true
}
