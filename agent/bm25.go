package agent

import (
	"math"
	"sort"

	"go.uber.org/zap"

	apperrors "answerbase/errors"
	"answerbase/textproc"
)

// BM25 tuning defaults.
const (
	DefaultBM25K1 = 1.2
	DefaultBM25B  = 0.75
)

// BM25Options tunes the ranking. A nil K1 or B selects the default; zero is a valid
// setting for both (binary tf for K1, no length normalization for B).
type BM25Options struct {
	K1 *float64
	B  *float64
	// Languages selects the stopword sets removed from questions and queries.
	// nil means English; an empty, non-nil slice disables stopword removal.
	Languages []string
}

// DefaultBM25Options returns k1=1.2, b=0.75 with English stopwords.
func DefaultBM25Options() BM25Options {
	k1, b := DefaultBM25K1, DefaultBM25B
	return BM25Options{K1: &k1, B: &b, Languages: []string{"en"}}
}

type bm25Params struct {
	k1, b     float64
	languages []string
}

func (o BM25Options) resolve() (bm25Params, error) {
	p := bm25Params{k1: DefaultBM25K1, b: DefaultBM25B, languages: o.Languages}
	if o.K1 != nil {
		p.k1 = *o.K1
	}
	if o.B != nil {
		p.b = *o.B
	}
	if p.languages == nil {
		p.languages = []string{"en"}
	}
	if !(p.k1 >= 0) || math.IsInf(p.k1, 0) {
		return bm25Params{}, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "bm25 k1 %v", p.k1)
	}
	if !(p.b >= 0 && p.b <= 1) {
		return bm25Params{}, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "bm25 b %v", p.b)
	}
	return p, nil
}

type posting struct {
	doc int
	tf  int
}

// BM25Agent ranks stored questions against the query with Okapi BM25, scaled by each
// example's weight.
type BM25Agent struct {
	logger *zap.Logger
	params bm25Params

	examples []TrainingExample
	docLen   []int
	postings map[string][]posting
	avgLen   float64
}

// NewBM25Agent returns an untrained BM25 agent.
func NewBM25Agent(bm25 BM25Options, opts ...Option) (*BM25Agent, error) {
	params, err := bm25.resolve()
	if err != nil {
		return nil, err
	}
	s := applyOptions(opts)
	return &BM25Agent{logger: s.logger, params: params, postings: map[string][]posting{}}, nil
}

// Train rebuilds the inverted index and corpus statistics.
func (a *BM25Agent) Train(examples []TrainingExample) error {
	if err := validateAll(examples); err != nil {
		return err
	}
	stored := make([]TrainingExample, len(examples))
	copy(stored, examples)

	docLen := make([]int, len(stored))
	postings := make(map[string][]posting)
	total := 0
	for i, ex := range stored {
		terms := textproc.Terms(ex.Input, a.params.languages)
		docLen[i] = len(terms)
		total += len(terms)

		tf := make(map[string]int, len(terms))
		order := make([]string, 0, len(terms))
		for _, term := range terms {
			if tf[term] == 0 {
				order = append(order, term)
			}
			tf[term]++
		}
		for _, term := range order {
			postings[term] = append(postings[term], posting{doc: i, tf: tf[term]})
		}
	}

	avgLen := 0.0
	if len(stored) > 0 {
		avgLen = float64(total) / float64(len(stored))
	}

	a.examples = stored
	a.docLen = docLen
	a.postings = postings
	a.avgLen = avgLen
	a.logger.Info("BM25 index built",
		zap.Int("examples", len(stored)),
		zap.Int("terms", len(postings)),
		zap.Float64("avg_length", avgLen))
	return nil
}

// IDF returns ln((N - df + 0.5)/(df + 0.5) + 1) for a normalized term.
func (a *BM25Agent) IDF(term string) float64 {
	n := float64(len(a.examples))
	df := float64(len(a.postings[term]))
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// Scores returns the weighted BM25 score of every stored example, in corpus order.
func (a *BM25Agent) Scores(query string) ([]float64, error) {
	if len(a.examples) == 0 {
		return nil, apperrors.WrapError(apperrors.ErrNoMatch, "no training data")
	}
	terms := textproc.Terms(query, a.params.languages)
	if len(terms) == 0 {
		return nil, apperrors.WrapErrorf(apperrors.ErrEmptyQuery, "query %q", query)
	}

	k1, b := a.params.k1, a.params.b
	scores := make([]float64, len(a.examples))
	// each document accumulates contributions in query-term order
	for _, term := range terms {
		list := a.postings[term]
		if len(list) == 0 {
			continue
		}
		idf := a.IDF(term)
		for _, p := range list {
			tf := float64(p.tf)
			norm := k1 * (1 - b + b*float64(a.docLen[p.doc])/a.avgLen)
			scores[p.doc] += idf * tf * (k1 + 1) / (tf + norm)
		}
	}
	for i := range scores {
		scores[i] *= a.examples[i].Weight
	}
	return scores, nil
}

// Predict returns the response of the highest-scoring example.
func (a *BM25Agent) Predict(query string) (ResponseFormat, error) {
	p, err := a.PredictWithConfidence(query)
	if err != nil {
		return nil, err
	}
	return p.Response, nil
}

// PredictWithConfidence returns the winner with confidence best/(best+runnerUp).
func (a *BM25Agent) PredictWithConfidence(query string) (Prediction, error) {
	scores, err := a.Scores(query)
	if err != nil {
		return Prediction{}, err
	}

	best, runnerUp := -1, -1
	for i, s := range scores {
		switch {
		case best < 0 || s > scores[best]:
			runnerUp = best
			best = i
		case runnerUp < 0 || s > scores[runnerUp]:
			runnerUp = i
		}
	}
	if scores[best] <= 0 {
		a.logger.Debug("No document shares a term with the query", zap.String("query", query))
		return Prediction{}, apperrors.WrapErrorf(apperrors.ErrNoMatch, "query %q", query)
	}

	confidence := 1.0
	if runnerUp >= 0 && scores[runnerUp] > 0 {
		confidence = scores[best] / (scores[best] + scores[runnerUp])
	}
	a.logger.Debug("BM25 prediction",
		zap.String("query", query),
		zap.Int("index", best),
		zap.Float64("score", scores[best]),
		zap.Float64("confidence", confidence))
	return Prediction{
		Response:   a.examples[best].Output,
		Confidence: confidence,
		Score:      scores[best],
		Index:      best,
	}, nil
}

// PredictTopN returns up to n examples with a positive score, best first.
// Confidence is each score relative to the winner's. n <= 0 returns all of them.
func (a *BM25Agent) PredictTopN(query string, n int) ([]Prediction, error) {
	scores, err := a.Scores(query)
	if err != nil {
		return nil, err
	}
	idxs := make([]int, 0, len(scores))
	for i, s := range scores {
		if s > 0 {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return nil, apperrors.WrapErrorf(apperrors.ErrNoMatch, "query %q", query)
	}
	sort.SliceStable(idxs, func(i, j int) bool {
		return scores[idxs[i]] > scores[idxs[j]]
	})
	if n > 0 && len(idxs) > n {
		idxs = idxs[:n]
	}

	top := scores[idxs[0]]
	ranked := make([]Prediction, 0, len(idxs))
	for _, i := range idxs {
		ranked = append(ranked, Prediction{
			Response:   a.examples[i].Output,
			Confidence: scores[i] / top,
			Score:      scores[i],
			Index:      i,
		})
	}
	return ranked, nil
}
