// Package shingle produces the ordered shingle sequence consumed by the
// minhash signer. A shingle is a contiguous k-window over either the raw
// characters of a text or its whitespace-split tokens.
package shingle

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/systemshift/neardup/pkg/errs"
)

// Mode selects whether shingles are drawn from characters or tokens.
type Mode string

const (
	// Character shingles are every length-k substring of the raw text.
	Character Mode = "character"
	// Term shingles are every length-k window of whitespace-split tokens,
	// joined back together with a single space.
	Term Mode = "term"
)

// Sequence is a finite, non-restartable ordered sequence of shingles. It is
// produced lazily: Next walks the underlying text/token slice without
// materializing the full shingle list unless the caller drains it.
type Sequence struct {
	units []string // characters (as strings) or tokens, depending on mode
	k     int
	pos   int
	mode  Mode
}

// New builds the shingle sequence for text under the given k and mode. It
// fails with errs.ErrInputTooShort if the resulting sequence would be empty,
// including when k exceeds the unit count.
func New(text string, k int, mode Mode) (*Sequence, error) {
	if k < 1 {
		return nil, errors.Wrapf(errs.ErrBadMode, "k must be >= 1, got %d", k)
	}

	var units []string
	switch mode {
	case Character:
		units = splitCharacters(text)
	case Term:
		units = strings.Fields(text) // collapses runs of whitespace, drops empties
	default:
		return nil, errors.Wrapf(errs.ErrBadMode, "unrecognized mode %q", mode)
	}

	length := len(units) - k + 1
	if length <= 0 {
		return nil, errs.ErrInputTooShort
	}

	return &Sequence{units: units, k: k, mode: mode}, nil
}

// Len returns the number of shingles the sequence will yield.
func (s *Sequence) Len() int {
	return len(s.units) - s.k + 1
}

// Next returns the next shingle and true, or "", false once exhausted.
func (s *Sequence) Next() (string, bool) {
	if s.pos >= s.Len() {
		return "", false
	}
	window := s.units[s.pos : s.pos+s.k]
	s.pos++
	if s.mode == Character {
		return strings.Join(window, ""), true
	}
	return strings.Join(window, " "), true
}

// All drains the sequence into a slice. Provided for callers (tests, the
// exact-Jaccard verifier) that need the full shingle set rather than a
// one-pass walk. If Next has already consumed part of the sequence, All
// returns only the shingles not yet consumed.
func (s *Sequence) All() []string {
	out := make([]string, 0, s.Len())
	for {
		sh, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, sh)
	}
	return out
}

// splitCharacters returns the text's Unicode code points as individual
// strings, so multi-byte runes are treated as one character-shingle unit
// rather than being sliced mid-encoding.
func splitCharacters(text string) []string {
	runes := []rune(text)
	units := make([]string, len(runes))
	for i, r := range runes {
		units[i] = string(r)
	}
	return units
}
