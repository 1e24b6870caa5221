// Package matching turns noisy OCR output and hand-typed name fields into
// directly comparable text. Everything here is pure and allocation-light so the
// classifier and name matcher can call it freely.
package matching

import (
	"strings"
	"unicode/utf8"
)

// MinTokenLength drops stray single characters that OCR tends to emit around
// photos, signatures, and card borders.
const MinTokenLength = 2

// Normalize folds s to lower case, replaces every character outside [a-z0-9]
// with a space, collapses runs of whitespace and trims the result.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))

	pendingSpace := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// TokenSet is an unordered set of matchable tokens.
type TokenSet map[string]struct{}

// Tokenize splits an already normalized string on whitespace and keeps tokens
// of at least MinTokenLength characters. Empty input yields an empty set.
func Tokenize(normalized string) TokenSet {
	set := make(TokenSet)
	for _, tok := range strings.Fields(normalized) {
		if utf8.RuneCountInString(tok) < MinTokenLength {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// NormalizeAndTokenize is a shorthand for Tokenize(Normalize(s)).
func NormalizeAndTokenize(s string) TokenSet {
	return Tokenize(Normalize(s))
}

// Len returns the number of distinct tokens.
func (t TokenSet) Len() int {
	return len(t)
}

// AnyIn reports whether at least one token of t occurs as a substring of corpus.
// Substring rather than token equality tolerates OCR merging adjacent words.
func (t TokenSet) AnyIn(corpus string) bool {
	for tok := range t {
		if strings.Contains(corpus, tok) {
			return true
		}
	}
	return false
}
