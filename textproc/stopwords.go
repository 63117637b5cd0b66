package textproc

import "strings"

var (
	englishStopwords = toSet([]string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	})

	germanStopwords = toSet([]string{
		"der", "die", "das", "den", "dem", "des", "und", "oder", "in", "im", "ist", "sind", "von", "mit", "zum", "zur", "zu", "ein", "eine", "eines", "einer", "einem", "auf", "für", "nicht", "es", "sich", "auch", "als", "an", "bei", "aus",
	})
)

// Stopwords returns the stopword set for a language code.
// Unknown codes fall back to English.
func Stopwords(language string) map[string]struct{} {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "de", "deu", "german":
		return germanStopwords
	default:
		return englishStopwords
	}
}

// FilterStopwords drops tokens found in the stopword sets of any of the given languages.
// Order of the remaining tokens is preserved; an empty language list filters nothing.
func FilterStopwords(tokens []string, languages []string) []string {
	if len(languages) == 0 {
		return tokens
	}
	sets := make([]map[string]struct{}, 0, len(languages))
	for _, lang := range languages {
		sets = append(sets, Stopwords(lang))
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if isStopword(tok, sets) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isStopword(token string, sets []map[string]struct{}) bool {
	for _, set := range sets {
		if _, ok := set[token]; ok {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
