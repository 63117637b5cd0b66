package agent

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "answerbase/errors"
)

// DefaultContextItems is the history capacity used when none is configured.
const DefaultContextItems = 3

// Turn is one recorded question and the response given to it.
type Turn struct {
	Question string
	Response ResponseFormat
}

// FormatKind selects how history is rendered into the augmented query.
type FormatKind int

const (
	// FormatQAPairs renders "Q: question A: answer " per turn.
	FormatQAPairs FormatKind = iota
	// FormatList renders "[question -> answer, question -> answer]".
	FormatList
	// FormatSentence renders "Previous questions and answers: question - answer; ...".
	FormatSentence
	// FormatCustom delegates to ContextFormat.Render.
	FormatCustom
)

// ContextFormat is a FormatKind plus, for FormatCustom, the rendering function.
type ContextFormat struct {
	Kind   FormatKind
	Render func(history []Turn) string
}

// ParseContextFormat maps a configuration name to one of the built-in formats.
func ParseContextFormat(name string) (ContextFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "qa", "qapairs", "qa_pairs":
		return ContextFormat{Kind: FormatQAPairs}, nil
	case "list":
		return ContextFormat{Kind: FormatList}, nil
	case "sentence":
		return ContextFormat{Kind: FormatSentence}, nil
	default:
		return ContextFormat{}, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "unknown context format %q", name)
	}
}

func (f ContextFormat) render(history []Turn) string {
	switch f.Kind {
	case FormatQAPairs:
		var sb strings.Builder
		for _, t := range history {
			sb.WriteString(fmt.Sprintf("Q: %s A: %s ", t.Question, responseText(t.Response)))
		}
		return sb.String()
	case FormatList:
		items := make([]string, 0, len(history))
		for _, t := range history {
			items = append(items, fmt.Sprintf("%s -> %s", t.Question, responseText(t.Response)))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case FormatSentence:
		items := make([]string, 0, len(history))
		for _, t := range history {
			items = append(items, fmt.Sprintf("%s - %s", t.Question, responseText(t.Response)))
		}
		return "Previous questions and answers: " + strings.Join(items, "; ")
	case FormatCustom:
		if f.Render == nil {
			return ""
		}
		return f.Render(history)
	default:
		return ""
	}
}

func responseText(r ResponseFormat) string {
	if r == nil {
		return ""
	}
	return r.String()
}

// ContextAgent wraps another strategy and prefixes each query with the recent conversation.
// Predict never records anything: the caller adds each turn with AddContext once it has
// the response.
type ContextAgent[A Predictor] struct {
	base     A
	logger   *zap.Logger
	format   ContextFormat
	maxItems int
	history  []Turn
}

// NewContextAgent wraps base with a history of at most maxItems turns.
func NewContextAgent[A Predictor](base A, maxItems int, opts ...Option) (*ContextAgent[A], error) {
	if maxItems < 1 {
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "context capacity %d", maxItems)
	}
	s := applyOptions(opts)
	if s.format.Kind == FormatCustom && s.format.Render == nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidArgument, "custom context format without a render function")
	}
	return &ContextAgent[A]{
		base:     base,
		logger:   s.logger,
		format:   s.format,
		maxItems: maxItems,
		history:  make([]Turn, 0, maxItems),
	}, nil
}

// Base returns the wrapped strategy.
func (c *ContextAgent[A]) Base() A {
	return c.base
}

// AugmentQuery renders the history in front of the query as "<query> [Context: ...]".
func (c *ContextAgent[A]) AugmentQuery(query string) string {
	if len(c.history) == 0 {
		return query
	}
	rendered := c.format.render(c.history)
	if rendered == "" {
		return query
	}
	return fmt.Sprintf("%s [Context: %s]", query, rendered)
}

// Predict delegates the augmented query to the wrapped strategy.
func (c *ContextAgent[A]) Predict(query string) (ResponseFormat, error) {
	augmented := c.AugmentQuery(query)
	c.logger.Debug("Predicting with context",
		zap.Int("history", len(c.history)),
		zap.String("query", augmented))
	return c.base.Predict(augmented)
}

// PredictWithConfidence delegates when the wrapped strategy reports confidence;
// otherwise any answer has confidence 1.
func (c *ContextAgent[A]) PredictWithConfidence(query string) (Prediction, error) {
	augmented := c.AugmentQuery(query)
	if ca, ok := any(c.base).(ConfidenceAware); ok {
		return ca.PredictWithConfidence(augmented)
	}
	resp, err := c.base.Predict(augmented)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Response: resp, Confidence: 1.0, Index: -1}, nil
}

// PredictTopN ranks the augmented query when the wrapped strategy is a Ranker.
func (c *ContextAgent[A]) PredictTopN(query string, n int) ([]Prediction, error) {
	r, ok := any(c.base).(Ranker)
	if !ok {
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "wrapped %T cannot rank", c.base)
	}
	return r.PredictTopN(c.AugmentQuery(query), n)
}

// Train forwards the corpus to the wrapped strategy. History is left alone.
func (c *ContextAgent[A]) Train(examples []TrainingExample) error {
	trainer, ok := any(c.base).(Trainer)
	if !ok {
		return apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "wrapped %T cannot be trained", c.base)
	}
	return trainer.Train(examples)
}

// AddContext records a turn, evicting the oldest once capacity is exceeded.
func (c *ContextAgent[A]) AddContext(question string, response ResponseFormat) {
	c.history = append(c.history, Turn{Question: question, Response: response})
	if over := len(c.history) - c.maxItems; over > 0 {
		c.history = append(c.history[:0], c.history[over:]...)
	}
}

// ClearContext empties the history.
func (c *ContextAgent[A]) ClearContext() {
	c.history = c.history[:0]
}

// History returns a copy of the recorded turns, oldest first.
func (c *ContextAgent[A]) History() []Turn {
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}
