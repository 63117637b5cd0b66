package pdfloader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"answerbase/agent"
	apperrors "answerbase/errors"
)

func smallLoader(t *testing.T, mutate func(*Config)) *Loader {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MinChunkSize = 5
	cfg.MaxChunkSize = 20
	cfg.ChunkOverlap = 5
	if mutate != nil {
		mutate(&cfg)
	}
	l, err := New(zap.NewNop(), cfg)
	require.NoError(t, err)
	return l
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 50, cfg.MinChunkSize)
	assert.Equal(t, 1000, cfg.MaxChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 1.0, cfg.DefaultWeight)
	assert.True(t, cfg.IncludeMetadata)
	assert.True(t, cfg.SplitBySentence)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero_max", mutate: func(c *Config) { c.MaxChunkSize = 0 }},
		{name: "min_above_max", mutate: func(c *Config) { c.MinChunkSize = 2000 }},
		{name: "overlap_not_below_max", mutate: func(c *Config) { c.ChunkOverlap = 1000 }},
		{name: "negative_overlap", mutate: func(c *Config) { c.ChunkOverlap = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(nil, cfg)
			assert.True(t, apperrors.IsInvalidArgument(err))
		})
	}

	cfg := DefaultConfig()
	cfg.DefaultWeight = 0
	_, err := New(nil, cfg)
	assert.True(t, apperrors.IsInvalidWeight(err))
}

func TestSplitIntoChunksOverlaps(t *testing.T) {
	l := smallLoader(t, nil)

	chunks := l.SplitIntoChunks("This is a test. This is another test.")
	assert.Equal(t, []string{"This is a test.", "test. This is anothe", "nother test."}, chunks)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 20)
		if i == 0 {
			continue
		}
		prev := []rune(chunks[i-1])
		assert.True(t, strings.HasPrefix(chunk, string(prev[len(prev)-5:])), "chunk %d starts with the tail of chunk %d", i, i-1)
	}
}

func TestSplitIntoChunksEdgeCases(t *testing.T) {
	l := smallLoader(t, nil)

	assert.Nil(t, l.SplitIntoChunks("   "))
	assert.Equal(t, []string{"Short text."}, l.SplitIntoChunks("  Short text.  "))

	// rune-safe: every chunk is valid text of at most 20 characters
	text := strings.Repeat("äöü ß ", 10)
	for _, chunk := range l.SplitIntoChunks(text) {
		assert.LessOrEqual(t, len([]rune(chunk)), 20)
		assert.NotContains(t, chunk, "�")
	}
}

func TestSplitIntoChunksByCharacter(t *testing.T) {
	l := smallLoader(t, func(c *Config) {
		c.SplitBySentence = false
		c.ChunkOverlap = 0
		c.MinChunkSize = 3
	})

	chunks := l.SplitIntoChunks(strings.Repeat("abcde", 9))
	assert.Equal(t, []string{
		"abcdeabcdeabcdeabcde",
		"abcdeabcdeabcdeabcde",
		"abcde",
	}, chunks)
}

func TestSplitIntoChunksDropsShortTail(t *testing.T) {
	l := smallLoader(t, func(c *Config) {
		c.SplitBySentence = false
		c.ChunkOverlap = 0
		c.MinChunkSize = 10
	})

	chunks := l.SplitIntoChunks(strings.Repeat("x", 45))
	assert.Equal(t, []string{strings.Repeat("x", 20), strings.Repeat("x", 20)}, chunks)
}

func TestTextToExamples(t *testing.T) {
	l := smallLoader(t, func(c *Config) { c.DefaultWeight = 0.5 })

	examples := l.TextToExamples("This is a test. This is another test.")
	require.Len(t, examples, 3)

	sourceID := examples[0].Metadata["source_id"]
	require.NotEmpty(t, sourceID)
	for i, ex := range examples {
		assert.Equal(t, ex.Input, ex.Output.String())
		assert.Equal(t, agent.Text(ex.Input), ex.Output)
		assert.Equal(t, 0.5, ex.Weight)
		assert.Equal(t, i, ex.Metadata["chunk_index"])
		assert.Equal(t, 3, ex.Metadata["total_chunks"])
		assert.Equal(t, sourceID, ex.Metadata["source_id"])
	}

	plain := smallLoader(t, func(c *Config) { c.IncludeMetadata = false })
	for _, ex := range plain.TextToExamples("This is a test. This is another test.") {
		assert.Nil(t, ex.Metadata)
	}
}

func TestExtractTextErrors(t *testing.T) {
	l := smallLoader(t, nil)

	_, err := l.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = l.ToKnowledgeBase(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.True(t, apperrors.IsInvalidArgument(err))

	notPDF := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("plain text, not a PDF"), 0o644))
	_, err = l.ExtractText(notPDF)
	assert.Error(t, err)
}
