// Package textproc holds the pure text pipeline shared by every matching strategy:
// folding, tokenization, stopword removal and n-gram windows.
package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "answerbase/errors"
)

// Normalize folds diacritics and case so that visually equivalent inputs compare equal.
// "Crème Brûlée" and "creme brulee" normalize to the same string.
func Normalize(text string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		// The chain only drops marks; fall back to plain compatibility decomposition.
		folded = norm.NFKD.String(text)
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// Tokenize lower-cases text and splits it on every rune that is neither a letter nor a number.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Terms runs the full pipeline: Normalize, Tokenize, FilterStopwords.
func Terms(text string, languages []string) []string {
	return FilterStopwords(Tokenize(Normalize(text)), languages)
}

// Key is the lookup form of a question: normalized tokens joined by a single space.
func Key(text string) string {
	return strings.Join(Tokenize(Normalize(text)), " ")
}

// UniqueTerms returns the set of normalized tokens in text.
func UniqueTerms(text string) map[string]struct{} {
	tokens := Tokenize(Normalize(text))
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// NGrams returns overlapping windows of n tokens joined by a space.
// A text with fewer than n tokens yields no n-grams.
func NGrams(text string, n int) ([]string, error) {
	if n < 1 {
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "n-gram size %d", n)
	}
	tokens := Tokenize(Normalize(text))
	if len(tokens) < n {
		return []string{}, nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams, nil
}
