package pdfloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPunctuationSplitter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "three_terminators",
			in:   "This is a sentence. This is a second sentence! Is this a third sentence?",
			want: []string{"This is a sentence.", "This is a second sentence!", "Is this a third sentence?"},
		},
		{
			name: "terminator_runs",
			in:   "Really?! Yes... fine",
			want: []string{"Really?!", "Yes...", "fine"},
		},
		{
			name: "newlines",
			in:   "First line.\nSecond line.",
			want: []string{"First line.", "Second line."},
		},
		{name: "empty", in: "  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PunctuationSplitter{}.Split(tt.in))
		})
	}
}

func TestNewSplitter(t *testing.T) {
	assert.IsType(t, PunctuationSplitter{}, NewSplitter(nil, ""))
	assert.IsType(t, PunctuationSplitter{}, NewSplitter(nil, "punctuation"))
	assert.IsType(t, ProseSentenceSplitter{}, NewSplitter(zap.NewNop(), "Prose"))
}

func TestProseSentenceSplitter(t *testing.T) {
	s := NewProseSentenceSplitter(zap.NewNop())

	assert.Nil(t, s.Split(""))
	sentences := s.Split("The index is rebuilt on every call. Queries are answered afterwards.")
	assert.Equal(t, []string{"The index is rebuilt on every call.", "Queries are answered afterwards."}, sentences)
}
