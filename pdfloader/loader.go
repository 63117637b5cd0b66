// Package pdfloader turns documents into training examples: text is extracted from a PDF,
// cut into overlapping chunks and each chunk becomes one example that answers with itself.
package pdfloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"answerbase/agent"
	apperrors "answerbase/errors"
	"answerbase/knowledge"
	"answerbase/utils"
)

// Config controls chunking. Sizes are counted in characters (runes).
type Config struct {
	MinChunkSize    int
	MaxChunkSize    int
	ChunkOverlap    int
	DefaultWeight   float64
	IncludeMetadata bool
	SplitBySentence bool
	// Splitter is SplitterPunctuation or SplitterProse.
	Splitter string
}

// DefaultConfig returns 50/1000/200 character chunks of weight 1 with metadata, split at
// sentence boundaries.
func DefaultConfig() Config {
	return Config{
		MinChunkSize:    50,
		MaxChunkSize:    1000,
		ChunkOverlap:    200,
		DefaultWeight:   agent.DefaultWeight,
		IncludeMetadata: true,
		SplitBySentence: true,
		Splitter:        SplitterPunctuation,
	}
}

// Validate checks that chunking always makes progress.
func (c Config) Validate() error {
	switch {
	case c.MaxChunkSize <= 0:
		return apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "max chunk size %d", c.MaxChunkSize)
	case c.MinChunkSize < 0 || c.MinChunkSize > c.MaxChunkSize:
		return apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "min chunk size %d with max %d", c.MinChunkSize, c.MaxChunkSize)
	case c.ChunkOverlap < 0 || c.ChunkOverlap >= c.MaxChunkSize:
		return apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "chunk overlap %d with max %d", c.ChunkOverlap, c.MaxChunkSize)
	case !(c.DefaultWeight > 0):
		return apperrors.WrapErrorf(apperrors.ErrInvalidWeight, "default weight %v", c.DefaultWeight)
	}
	return nil
}

// Loader converts PDFs and plain text into training examples.
type Loader struct {
	logger   *zap.Logger
	config   Config
	splitter SentenceSplitter
}

// New validates cfg and returns a Loader.
func New(logger *zap.Logger, cfg Config) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loader{
		logger:   logger,
		config:   cfg,
		splitter: NewSplitter(logger, cfg.Splitter),
	}, nil
}

// ExtractText returns the text of every readable page, each preceded by a page marker.
func (l *Loader) ExtractText(path string) (string, error) {
	if !utils.VerifyFileExists(path) {
		return "", apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "no such file %s", path)
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var fullText strings.Builder
	totalPages := r.NumPage()
	l.logger.Debug("Extracting text from PDF",
		zap.String("path", path),
		zap.Int("pages", totalPages))

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			l.logger.Warn("Skipping null page", zap.Int("page", pageNum))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			l.logger.Warn("Failed to extract text from page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		fmt.Fprintf(&fullText, "--- Page %d ---\n", pageNum)
		fullText.WriteString(text)
		fullText.WriteString("\n\n")
	}

	extracted := fullText.String()
	l.logger.Info("PDF text extraction completed",
		zap.String("path", path),
		zap.Int("pages", totalPages),
		zap.Int("characters", len(extracted)))
	return extracted, nil
}

// SplitIntoChunks cuts text into chunks of at most MaxChunkSize characters. When a chunk is
// closed its last ChunkOverlap characters start the next one; chunks shorter than
// MinChunkSize are dropped. Text no longer than MaxChunkSize is returned whole.
func (l *Loader) SplitIntoChunks(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	cfg := l.config
	if len([]rune(text)) <= cfg.MaxChunkSize {
		return []string{text}
	}

	var segments []string
	sep := ""
	if cfg.SplitBySentence {
		segments = l.splitter.Split(text)
		sep = " "
	} else {
		for _, r := range text {
			segments = append(segments, string(r))
		}
	}

	var chunks []string
	var current []rune
	for _, segment := range segments {
		piece := []rune(segment)
		if len(current) > 0 {
			piece = []rune(sep + segment)
		}

		if len(current)+len(piece) > cfg.MaxChunkSize && len(current) >= cfg.MinChunkSize {
			chunks = append(chunks, string(current))
			switch {
			case cfg.ChunkOverlap == 0:
				current = nil
				piece = []rune(segment)
			case len(current) > cfg.ChunkOverlap:
				current = append([]rune(nil), current[len(current)-cfg.ChunkOverlap:]...)
			}
		}

		current = append(current, piece...)
		for len(current) > cfg.MaxChunkSize {
			chunks = append(chunks, string(current[:cfg.MaxChunkSize]))
			current = append([]rune(nil), current[cfg.MaxChunkSize-cfg.ChunkOverlap:]...)
		}
	}

	if len(current) > 0 && len(current) >= cfg.MinChunkSize {
		chunks = append(chunks, string(current))
	}
	return chunks
}

// TextToExamples makes one example per chunk whose input and output are the chunk itself.
func (l *Loader) TextToExamples(text string) []agent.TrainingExample {
	return l.examplesFrom(text, "")
}

func (l *Loader) examplesFrom(text, source string) []agent.TrainingExample {
	chunks := l.SplitIntoChunks(text)
	sourceID := utils.GenerateExampleID()

	examples := make([]agent.TrainingExample, 0, len(chunks))
	for i, chunk := range chunks {
		ex := agent.TrainingExample{
			Input:  chunk,
			Output: agent.Text(chunk),
			Weight: l.config.DefaultWeight,
		}
		if l.config.IncludeMetadata {
			ex.Metadata = map[string]any{
				"chunk_index":  i,
				"total_chunks": len(chunks),
				"source_id":    sourceID,
			}
			if source != "" {
				ex.Metadata["source"] = source
			}
		}
		examples = append(examples, ex)
	}
	l.logger.Debug("Text converted to examples",
		zap.Int("chunks", len(chunks)),
		zap.String("source_id", sourceID))
	return examples
}

// ToKnowledgeBase extracts, chunks and collects the examples of a PDF.
func (l *Loader) ToKnowledgeBase(path string) (*knowledge.KnowledgeBase, error) {
	text, err := l.ExtractText(path)
	if err != nil {
		return nil, err
	}
	kb := knowledge.New()
	for _, ex := range l.examplesFrom(text, filepath.Base(path)) {
		if err := kb.Add(ex); err != nil {
			return nil, err
		}
	}
	l.logger.Info("PDF converted to knowledge base",
		zap.String("path", path),
		zap.Int("examples", kb.Len()))
	return kb, nil
}
