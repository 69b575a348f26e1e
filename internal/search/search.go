// Package search finds literal matches in a document snapshot.
//
// FindAll runs a Knuth-Morris-Pratt automaton over the rope's code points,
// so the scan never materializes the whole text and its cost is linear in
// the document length. Offsets are code point offsets, the unit every
// engine API uses.
package search

import (
	"unicode"
	"unicode/utf8"

	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/rope"
)

// DefaultPollEvery is the number of code points scanned between polls.
const DefaultPollEvery = 64 << 10

// Options controls a search.
type Options struct {
	// IgnoreCase matches runes that are equal under simple case folding.
	IgnoreCase bool

	// PollEvery is the number of code points between calls to poll.
	// Zero means DefaultPollEvery.
	PollEvery int
}

// FindAll returns the start offsets of all non-overlapping matches of
// query in r, in ascending order. poll, when not nil, is called every
// PollEvery code points; its error stops the scan and is returned as is.
// An empty query matches nothing. A query that is not valid UTF-8 fails
// with an InvalidOperation error.
func FindAll(r rope.Rope, query string, opts Options, poll func() error) ([]rope.Offset, error) {
	if !utf8.ValidString(query) {
		return nil, coreerr.NewDomain(coreerr.KindInvalidOperation, "search query is not valid UTF-8")
	}
	if query == "" {
		return nil, nil
	}
	every := opts.PollEvery
	if every <= 0 {
		every = DefaultPollEvery
	}

	pattern := []rune(query)
	if opts.IgnoreCase {
		for i, p := range pattern {
			pattern[i] = fold(p)
		}
	}
	failure := buildFailure(pattern)

	var matches []rope.Offset
	matched := 0
	it := r.Runes()
	for n := 0; it.Next(); n++ {
		if poll != nil && n%every == 0 {
			if err := poll(); err != nil {
				return nil, err
			}
		}

		c := it.Rune()
		if opts.IgnoreCase {
			c = fold(c)
		}
		for matched > 0 && pattern[matched] != c {
			matched = failure[matched-1]
		}
		if pattern[matched] == c {
			matched++
		}
		if matched == len(pattern) {
			matches = append(matches, it.Offset()-len(pattern)+1)
			// Restart instead of following the failure link so matches
			// never overlap.
			matched = 0
		}
	}
	return matches, nil
}

// buildFailure computes the KMP failure function: failure[i] is the length
// of the longest proper prefix of pattern[:i+1] that is also its suffix.
func buildFailure(pattern []rune) []int {
	failure := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = failure[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		failure[i] = k
	}
	return failure
}

// fold maps r to the smallest rune of its simple case-folding orbit, so
// two runes fold equal exactly when they match case-insensitively. Unlike
// full case folding it never changes the rune count.
func fold(r rune) rune {
	m := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < m {
			m = f
		}
	}
	return m
}
