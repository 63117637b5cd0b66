// Package agent contains the matching strategies that answer queries from a corpus of
// weighted training examples, and the decorators that compose with them.
package agent

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "answerbase/errors"
)

// Predictor answers a query with the best stored response.
type Predictor interface {
	Predict(query string) (ResponseFormat, error)
}

// Trainer rebuilds its index from an ordered corpus, discarding any previous index.
type Trainer interface {
	Train(examples []TrainingExample) error
}

// Agent is a trainable predictor; every concrete strategy satisfies it.
type Agent interface {
	Predictor
	Trainer
}

// Contextual agents keep a bounded conversation history.
type Contextual interface {
	AddContext(question string, response ResponseFormat)
	ClearContext()
	History() []Turn
}

// ConfidenceAware agents report how sure they are of an answer, in [0,1].
type ConfidenceAware interface {
	PredictWithConfidence(query string) (Prediction, error)
}

// Ranker agents can return more than the single best answer.
type Ranker interface {
	PredictTopN(query string, n int) ([]Prediction, error)
}

// Prediction is a response together with how it was chosen.
type Prediction struct {
	Response   ResponseFormat
	Confidence float64
	// Score is the strategy's raw score: BM25 score, or edit distance for fuzzy matching.
	Score float64
	// Index is the position of the winning example in the trained corpus.
	Index int
}

// Strategy selects a matching strategy at construction time.
type Strategy string

const (
	StrategyExact   Strategy = "exact"
	StrategyFuzzy   Strategy = "fuzzy"
	StrategyBM25    Strategy = "bm25"
	StrategyContext Strategy = "context"
)

// ParseStrategy maps a user-supplied name to a strategy. "simple" and "tfidf" are accepted aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "exact", "simple":
		return StrategyExact, nil
	case "fuzzy":
		return StrategyFuzzy, nil
	case "bm25", "tfidf":
		return StrategyBM25, nil
	case "context":
		return StrategyContext, nil
	default:
		return "", apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "unknown agent type %q", name)
	}
}

// Options configures New. Zero values mean defaults.
type Options struct {
	Logger        *zap.Logger
	Fuzzy         FuzzyOptions
	BM25          BM25Options
	ContextItems  int
	ContextFormat ContextFormat
	// CacheSize > 0 puts an LRU cache in front of the base strategy.
	CacheSize int
}

// New constructs the named strategy. The context strategy wraps a BM25 agent.
func New(kind Strategy, opts Options) (Agent, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var base Agent
	var err error
	switch kind {
	case StrategyExact:
		base = NewExactAgent(WithLogger(logger))
	case StrategyFuzzy:
		base, err = NewFuzzyAgent(opts.Fuzzy, WithLogger(logger))
	case StrategyBM25, StrategyContext:
		base, err = NewBM25Agent(opts.BM25, WithLogger(logger))
	default:
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "unknown agent type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s agent: %w", kind, err)
	}

	if opts.CacheSize > 0 {
		base, err = NewCachedAgent(base, opts.CacheSize, WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to build prediction cache: %w", err)
		}
	}

	if kind != StrategyContext {
		return base, nil
	}
	items := opts.ContextItems
	if items == 0 {
		items = DefaultContextItems
	}
	ctxAgent, err := NewContextAgent(base, items, WithLogger(logger), WithContextFormat(opts.ContextFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to build context agent: %w", err)
	}
	return ctxAgent, nil
}

// Option tweaks ambient settings shared by all strategies.
type Option func(*settings)

type settings struct {
	logger *zap.Logger
	format ContextFormat
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithContextFormat sets how a ContextAgent renders its history.
func WithContextFormat(format ContextFormat) Option {
	return func(s *settings) {
		s.format = format
	}
}

func applyOptions(opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}
