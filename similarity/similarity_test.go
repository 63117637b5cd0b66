package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "classic", a: "kitten", b: "sitting", want: 3},
		{name: "identical", a: "airust", b: "airust", want: 0},
		{name: "empty_left", a: "", b: "abc", want: 3},
		{name: "empty_right", a: "abc", b: "", want: 3},
		{name: "both_empty", a: "", b: "", want: 0},
		{name: "typo", a: "what is ayrast", b: "what is airust", want: 2},
		{name: "multibyte", a: "köln", b: "koln", want: 1},
		{name: "insert_only", a: "gel", b: "angel", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
		})
	}
}

func TestLevenshteinLaws(t *testing.T) {
	words := []string{"", "a", "ab", "abc", "flaw", "lawn", "kitten", "sitting", "airust", "ayrast", "straße", "strasse"}

	for _, a := range words {
		assert.Equal(t, 0, Levenshtein(a, a), "identity for %q", a)
		for _, b := range words {
			dab := Levenshtein(a, b)
			assert.Equal(t, dab, Levenshtein(b, a), "symmetry for %q/%q", a, b)
			for _, c := range words {
				assert.LessOrEqual(t, Levenshtein(a, c), dab+Levenshtein(b, c), "triangle for %q/%q/%q", a, b, c)
			}
		}
	}
}

func TestJaccard(t *testing.T) {
	set := func(items ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(items))
		for _, it := range items {
			m[it] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{name: "both_empty", a: set(), b: set(), want: 1.0},
		{name: "one_empty", a: set("x"), b: set(), want: 0.0},
		{name: "identical", a: set("x", "y"), b: set("y", "x"), want: 1.0},
		{name: "half", a: set("x", "y"), b: set("y", "z", "x", "w"), want: 0.5},
		{name: "disjoint", a: set("x"), b: set("y"), want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-12)
		})
	}
}

func TestJaccardText(t *testing.T) {
	assert.Equal(t, 1.0, JaccardText("hello world", "World, hello!"))
	assert.InDelta(t, 1.0/3.0, JaccardText("hello world", "hello there"), 1e-12)
}
