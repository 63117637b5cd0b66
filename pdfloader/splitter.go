package pdfloader

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// SentenceSplitter breaks text into trimmed, non-empty sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// Splitter names accepted by NewSplitter.
const (
	SplitterPunctuation = "punctuation"
	SplitterProse       = "prose"
)

// NewSplitter returns the named splitter. Unknown names get the punctuation splitter.
func NewSplitter(logger *zap.Logger, name string) SentenceSplitter {
	if strings.EqualFold(strings.TrimSpace(name), SplitterProse) {
		return NewProseSentenceSplitter(logger)
	}
	return PunctuationSplitter{}
}

// PunctuationSplitter ends a sentence after '.', '!' or '?'. A run of terminators such as
// "?!" or "..." stays with its sentence.
type PunctuationSplitter struct{}

func (PunctuationSplitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	var sentences []string
	var builder strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(builder.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		builder.Reset()
	}

	for idx, r := range runes {
		builder.WriteRune(r)
		if !isTerminator(r) {
			continue
		}
		if idx+1 < len(runes) && isTerminator(runes[idx+1]) {
			continue
		}
		flush()
	}
	flush()
	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	default:
		return false
	}
}

// ProseSentenceSplitter segments with prose's sentence tokenizer, which knows about
// abbreviations like "e.g." and "Dr.". It falls back to PunctuationSplitter if prose fails.
type ProseSentenceSplitter struct {
	logger *zap.Logger
}

func NewProseSentenceSplitter(logger *zap.Logger) ProseSentenceSplitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ProseSentenceSplitter{logger: logger}
}

func (s ProseSentenceSplitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	doc, err := prose.NewDocument(trimmed,
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		s.logger.Warn("Prose sentence segmentation failed, splitting on punctuation", zap.Error(err))
		return PunctuationSplitter{}.Split(trimmed)
	}

	var sentences []string
	for _, sent := range doc.Sentences() {
		if t := strings.TrimSpace(sent.Text); t != "" {
			sentences = append(sentences, t)
		}
	}
	if len(sentences) == 0 {
		return []string{trimmed}
	}
	return sentences
}
