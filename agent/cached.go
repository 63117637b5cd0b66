package agent

import (
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	apperrors "answerbase/errors"
)

type cachedPrediction struct {
	prediction Prediction
	err        error
}

// CachedAgent memoizes predictions of a stateless strategy until the next Train.
// Do not put it in front of a ContextAgent: that agent's answers depend on its history.
type CachedAgent struct {
	base   Agent
	cache  *lru.Cache
	logger *zap.Logger
}

// NewCachedAgent wraps base with an LRU cache holding up to size queries.
func NewCachedAgent(base Agent, size int, opts ...Option) (*CachedAgent, error) {
	if size <= 0 {
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "cache size %d", size)
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "cache: %v", err)
	}
	s := applyOptions(opts)
	return &CachedAgent{base: base, cache: cache, logger: s.logger}, nil
}

// Train retrains the wrapped strategy and drops every cached answer.
func (c *CachedAgent) Train(examples []TrainingExample) error {
	if err := c.base.Train(examples); err != nil {
		return err
	}
	c.cache.Purge()
	return nil
}

// Predict answers from the cache when possible.
func (c *CachedAgent) Predict(query string) (ResponseFormat, error) {
	p, err := c.PredictWithConfidence(query)
	if err != nil {
		return nil, err
	}
	return p.Response, nil
}

// PredictWithConfidence caches both answers and failures; the computation is deterministic.
func (c *CachedAgent) PredictWithConfidence(query string) (Prediction, error) {
	if v, ok := c.cache.Get(query); ok {
		hit := v.(cachedPrediction)
		c.logger.Debug("Prediction cache hit", zap.String("query", query))
		return hit.prediction, hit.err
	}

	var p Prediction
	var err error
	if ca, ok := c.base.(ConfidenceAware); ok {
		p, err = ca.PredictWithConfidence(query)
	} else {
		var resp ResponseFormat
		resp, err = c.base.Predict(query)
		p = Prediction{Response: resp, Confidence: 1.0, Index: -1}
	}
	if err != nil {
		p = Prediction{}
	}
	c.cache.Add(query, cachedPrediction{prediction: p, err: err})
	return p, err
}

// PredictTopN forwards to the wrapped strategy when it is a Ranker. Ranked lists are not cached.
func (c *CachedAgent) PredictTopN(query string, n int) ([]Prediction, error) {
	r, ok := c.base.(Ranker)
	if !ok {
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "wrapped %T cannot rank", c.base)
	}
	return r.PredictTopN(query, n)
}

// Len reports how many queries are cached.
func (c *CachedAgent) Len() int {
	return c.cache.Len()
}
