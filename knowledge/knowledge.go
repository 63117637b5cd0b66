// Package knowledge stores the ordered corpus of training examples and moves it to and from
// JSON files.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"answerbase/agent"
	apperrors "answerbase/errors"
)

// KnowledgeBase is an insertion-ordered list of training examples. Order matters: every
// strategy breaks ties in favour of the earlier example.
type KnowledgeBase struct {
	examples []agent.TrainingExample
	path     string
}

// New returns an empty knowledge base.
func New() *KnowledgeBase {
	return &KnowledgeBase{}
}

// Load reads a JSON array of training records from path. The path is remembered for Save.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file %s: %w", path, err)
	}
	kb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	kb.path = path
	return kb, nil
}

// Parse decodes a JSON array of training records. Either every record is accepted or
// an error wrapping ErrMalformedRecord is returned.
func Parse(data []byte) (*KnowledgeBase, error) {
	var examples []agent.TrainingExample
	if err := json.Unmarshal(data, &examples); err != nil {
		if apperrors.IsMalformedRecord(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrMalformedRecord, err)
	}
	return &KnowledgeBase{examples: examples}, nil
}

// Save writes the examples as indented JSON. An empty path falls back to the path the
// base was loaded from or last saved to.
func (kb *KnowledgeBase) Save(path string) error {
	if path == "" {
		path = kb.path
	}
	if path == "" {
		return apperrors.WrapError(apperrors.ErrInvalidArgument, "no path to save knowledge base to")
	}
	examples := kb.examples
	if examples == nil {
		examples = []agent.TrainingExample{}
	}
	data, err := json.MarshalIndent(examples, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode knowledge base: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write knowledge file %s: %w", path, err)
	}
	kb.path = path
	return nil
}

// Path is the file the base was loaded from or last saved to, if any.
func (kb *KnowledgeBase) Path() string {
	return kb.path
}

// Add appends an already-built example after validating its weight.
func (kb *KnowledgeBase) Add(example agent.TrainingExample) error {
	if err := example.Validate(); err != nil {
		return err
	}
	kb.examples = append(kb.examples, example)
	return nil
}

// AddExample builds and appends an example.
func (kb *KnowledgeBase) AddExample(input string, output agent.ResponseFormat, weight float64) error {
	example, err := agent.NewTrainingExample(input, output, weight)
	if err != nil {
		return err
	}
	kb.examples = append(kb.examples, example)
	return nil
}

// Remove deletes and returns the example at index.
func (kb *KnowledgeBase) Remove(index int) (agent.TrainingExample, error) {
	if index < 0 || index >= len(kb.examples) {
		return agent.TrainingExample{}, apperrors.WrapErrorf(apperrors.ErrNotFound,
			"index %d out of range [0,%d)", index, len(kb.examples))
	}
	removed := kb.examples[index]
	kb.examples = append(kb.examples[:index], kb.examples[index+1:]...)
	return removed, nil
}

// Merge appends other's examples after the existing ones.
func (kb *KnowledgeBase) Merge(other *KnowledgeBase) {
	if other == nil {
		return
	}
	kb.examples = append(kb.examples, other.examples...)
}

// MergeEmbedded appends the compiled-in examples.
func (kb *KnowledgeBase) MergeEmbedded() error {
	examples, err := embedded()
	if err != nil {
		return err
	}
	kb.examples = append(kb.examples, examples...)
	return nil
}

// Examples returns a copy of the corpus, in order.
func (kb *KnowledgeBase) Examples() []agent.TrainingExample {
	out := make([]agent.TrainingExample, len(kb.examples))
	copy(out, kb.examples)
	return out
}

// Len is the number of examples.
func (kb *KnowledgeBase) Len() int {
	return len(kb.examples)
}

// LoadDir merges every *.json file in dir, in lexical order. Files that cannot be read or
// parsed are skipped with a warning and returned in skipped.
func LoadDir(logger *zap.Logger, dir string) (kb *KnowledgeBase, skipped []string, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read knowledge directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, nil, apperrors.WrapErrorf(apperrors.ErrNotFound, "no JSON files in %s", dir)
	}

	merged := New()
	for _, file := range files {
		part, err := Load(file)
		if err != nil {
			logger.Warn("Skipping knowledge file", zap.String("file", file), zap.Error(err))
			skipped = append(skipped, file)
			continue
		}
		logger.Info("Knowledge file loaded", zap.String("file", file), zap.Int("examples", part.Len()))
		merged.Merge(part)
	}
	return merged, skipped, nil
}
