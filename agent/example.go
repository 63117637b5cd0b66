package agent

import (
	"encoding/json"
	"fmt"
	"math"

	apperrors "answerbase/errors"
)

// DefaultWeight is used when a training record does not carry a weight.
const DefaultWeight = 1.0

// TrainingExample is a weighted question/answer pair.
type TrainingExample struct {
	Input    string
	Output   ResponseFormat
	Weight   float64
	Metadata map[string]any
}

// NewTrainingExample builds an example, rejecting non-positive weights.
func NewTrainingExample(input string, output ResponseFormat, weight float64) (TrainingExample, error) {
	ex := TrainingExample{Input: input, Output: output, Weight: weight}
	if err := ex.Validate(); err != nil {
		return TrainingExample{}, err
	}
	return ex, nil
}

// Validate checks the weight invariant.
func (e TrainingExample) Validate() error {
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight <= 0 {
		return apperrors.WrapErrorf(apperrors.ErrInvalidWeight, "example %q has weight %v", e.Input, e.Weight)
	}
	return nil
}

type exampleRecord struct {
	Input    string          `json:"input"`
	Output   json.RawMessage `json:"output"`
	Weight   *float64        `json:"weight,omitempty"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

// MarshalJSON writes the record shape used by knowledge files.
func (e TrainingExample) MarshalJSON() ([]byte, error) {
	out, err := MarshalResponse(e.Output)
	if err != nil {
		return nil, err
	}
	weight := e.Weight
	return json.Marshal(exampleRecord{
		Input:    e.Input,
		Output:   out,
		Weight:   &weight,
		Metadata: e.Metadata,
	})
}

// UnmarshalJSON accepts both the tagged and the legacy bare-string output.
// A missing weight defaults to 1.0; a non-positive one is rejected.
func (e *TrainingExample) UnmarshalJSON(data []byte) error {
	var rec exampleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrMalformedRecord, err)
	}
	if len(rec.Output) == 0 {
		return apperrors.WrapErrorf(apperrors.ErrMalformedRecord, "record %q has no output", rec.Input)
	}
	output, err := UnmarshalResponse(rec.Output)
	if err != nil {
		return err
	}

	weight := DefaultWeight
	if rec.Weight != nil {
		weight = *rec.Weight
	}
	ex := TrainingExample{
		Input:    rec.Input,
		Output:   output,
		Weight:   weight,
		Metadata: rec.Metadata,
	}
	if err := ex.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrMalformedRecord, err)
	}
	*e = ex
	return nil
}

// validateAll checks every example before an index is rebuilt.
func validateAll(examples []TrainingExample) error {
	for i, ex := range examples {
		if err := ex.Validate(); err != nil {
			return apperrors.WrapErrorf(err, "example %d", i)
		}
	}
	return nil
}
