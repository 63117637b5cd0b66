package agent

import (
	"sort"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "answerbase/errors"
	"answerbase/similarity"
	"answerbase/textproc"
)

// FuzzyOptions bounds the edit distance a fuzzy match may have. A candidate is accepted
// when either configured bound accepts it. Options with no bound set fall back to
// DefaultFuzzyOptions.
type FuzzyOptions struct {
	// MaxDistance is an absolute bound on the edit distance.
	MaxDistance *int
	// ThresholdFactor bounds the distance relative to the longer of query and question.
	ThresholdFactor *float64
}

// DefaultFuzzyOptions accepts candidates within two edits.
func DefaultFuzzyOptions() FuzzyOptions {
	d := 2
	return FuzzyOptions{MaxDistance: &d}
}

func (o FuzzyOptions) validate() error {
	if o.MaxDistance != nil && *o.MaxDistance < 0 {
		return apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "max distance %d", *o.MaxDistance)
	}
	if o.ThresholdFactor != nil && !(*o.ThresholdFactor >= 0) {
		return apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "threshold factor %v", *o.ThresholdFactor)
	}
	return nil
}

func (o FuzzyOptions) accepts(distance, maxLen int) bool {
	if o.MaxDistance != nil && distance <= *o.MaxDistance {
		return true
	}
	if o.ThresholdFactor != nil && float64(distance) <= *o.ThresholdFactor*float64(maxLen) {
		return true
	}
	return false
}

type matchMode int

const (
	matchExact matchMode = iota
	matchFuzzy
)

// MatchAgent answers with the stored question that equals the query after normalization
// (exact mode) or is within an edit-distance bound of it (fuzzy mode).
type MatchAgent struct {
	logger *zap.Logger
	mode   matchMode
	fuzzy  FuzzyOptions

	examples []TrainingExample
	keys     []string
	byKey    map[string][]int
}

// NewExactAgent returns a MatchAgent in exact mode.
func NewExactAgent(opts ...Option) *MatchAgent {
	s := applyOptions(opts)
	return &MatchAgent{logger: s.logger, mode: matchExact, byKey: map[string][]int{}}
}

// NewFuzzyAgent returns a MatchAgent in fuzzy mode.
func NewFuzzyAgent(fuzzy FuzzyOptions, opts ...Option) (*MatchAgent, error) {
	if fuzzy.MaxDistance == nil && fuzzy.ThresholdFactor == nil {
		fuzzy = DefaultFuzzyOptions()
	}
	if err := fuzzy.validate(); err != nil {
		return nil, err
	}
	s := applyOptions(opts)
	return &MatchAgent{logger: s.logger, mode: matchFuzzy, fuzzy: fuzzy, byKey: map[string][]int{}}, nil
}

// Train replaces the stored corpus and its lookup table.
func (m *MatchAgent) Train(examples []TrainingExample) error {
	if err := validateAll(examples); err != nil {
		return err
	}
	stored := make([]TrainingExample, len(examples))
	copy(stored, examples)
	keys := make([]string, len(stored))
	byKey := make(map[string][]int, len(stored))
	for i, ex := range stored {
		keys[i] = textproc.Key(ex.Input)
		byKey[keys[i]] = append(byKey[keys[i]], i)
	}

	m.examples = stored
	m.keys = keys
	m.byKey = byKey
	m.logger.Info("Match index built",
		zap.Int("examples", len(stored)),
		zap.Int("distinct_questions", len(byKey)),
		zap.Bool("fuzzy", m.mode == matchFuzzy))
	return nil
}

// Predict returns the best match's response.
func (m *MatchAgent) Predict(query string) (ResponseFormat, error) {
	p, err := m.PredictWithConfidence(query)
	if err != nil {
		return nil, err
	}
	return p.Response, nil
}

// PredictWithConfidence returns the best match. Exact matches have confidence 1;
// fuzzy matches have 1 - distance/max(len(query), len(question)).
func (m *MatchAgent) PredictWithConfidence(query string) (Prediction, error) {
	ranked, err := m.PredictTopN(query, 1)
	if err != nil {
		return Prediction{}, err
	}
	return ranked[0], nil
}

// PredictTopN returns up to n accepted candidates, best first. n <= 0 returns all of them.
func (m *MatchAgent) PredictTopN(query string, n int) ([]Prediction, error) {
	if len(m.examples) == 0 {
		return nil, apperrors.WrapError(apperrors.ErrNoMatch, "no training data")
	}
	key := textproc.Key(query)

	var ranked []Prediction
	if m.mode == matchExact {
		ranked = m.exactCandidates(key)
	} else {
		ranked = m.fuzzyCandidates(key)
	}
	if len(ranked) == 0 {
		m.logger.Debug("No candidate accepted", zap.String("query", query))
		return nil, apperrors.WrapErrorf(apperrors.ErrNoMatch, "query %q", query)
	}
	if m.mode == matchFuzzy {
		best := ranked[0]
		m.logger.Debug("Fuzzy match",
			zap.String("query", query),
			zap.Int("index", best.Index),
			zap.Float64("distance", best.Score),
			zap.Float64("token_overlap", similarity.JaccardText(key, m.keys[best.Index])))
	}
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (m *MatchAgent) exactCandidates(key string) []Prediction {
	idxs := m.byKey[key]
	ranked := make([]Prediction, 0, len(idxs))
	for _, i := range idxs {
		ranked = append(ranked, Prediction{Response: m.examples[i].Output, Confidence: 1.0, Index: i})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return m.examples[ranked[a].Index].Weight > m.examples[ranked[b].Index].Weight
	})
	return ranked
}

func (m *MatchAgent) fuzzyCandidates(key string) []Prediction {
	queryLen := utf8.RuneCountInString(key)
	var ranked []Prediction
	for i, stored := range m.keys {
		distance := similarity.Levenshtein(key, stored)
		maxLen := max(queryLen, utf8.RuneCountInString(stored))
		if !m.fuzzy.accepts(distance, maxLen) {
			continue
		}
		confidence := 1.0
		if maxLen > 0 {
			confidence = 1.0 - float64(distance)/float64(maxLen)
		}
		ranked = append(ranked, Prediction{
			Response:   m.examples[i].Output,
			Confidence: confidence,
			Score:      float64(distance),
			Index:      i,
		})
	}
	// candidates are collected in corpus order; the stable sort keeps it as the last tie-break
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score < ranked[b].Score
		}
		return m.examples[ranked[a].Index].Weight > m.examples[ranked[b].Index].Weight
	})
	return ranked
}
