package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func example(t *testing.T, input, output string, weight float64) TrainingExample {
	t.Helper()
	ex, err := NewTrainingExample(input, Text(output), weight)
	require.NoError(t, err)
	return ex
}

// scenarioCorpus is the two-entry corpus used by the end-to-end scenarios.
func scenarioCorpus(t *testing.T) []TrainingExample {
	t.Helper()
	return []TrainingExample{
		example(t, "What is airust?", "A modular AI library", 2.0),
		example(t, "What is GEL?", "A version control system", 1.0),
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// recordingPredictor remembers every query it was asked.
type recordingPredictor struct {
	queries []string
	answer  ResponseFormat
}

func (r *recordingPredictor) Predict(query string) (ResponseFormat, error) {
	r.queries = append(r.queries, query)
	return r.answer, nil
}

// countingAgent wraps an Agent and counts calls that reach it.
type countingAgent struct {
	Agent
	predictions int
}

func (c *countingAgent) Predict(query string) (ResponseFormat, error) {
	c.predictions++
	return c.Agent.Predict(query)
}
