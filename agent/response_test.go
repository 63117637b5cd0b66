package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "answerbase/errors"
)

func TestResponseString(t *testing.T) {
	assert.Equal(t, "x", Text("x").String())
	assert.Equal(t, "# Title", Markdown("# Title").String())
	assert.Equal(t, `{"a":1,"key":"value"}`, JSON{Value: map[string]any{"key": "value", "a": 1}}.String())

	assert.Equal(t, KindText, Text("").Kind())
	assert.Equal(t, KindMarkdown, Markdown("").Kind())
	assert.Equal(t, KindJSON, JSON{}.Kind())
}

func TestUnmarshalResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ResponseFormat
	}{
		{name: "legacy_string", in: `"hello"`, want: Text("hello")},
		{name: "tagged_text", in: `{"Text": "hello"}`, want: Text("hello")},
		{name: "tagged_markdown", in: `{"Markdown": "**bold**"}`, want: Markdown("**bold**")},
		{name: "tagged_json", in: `{"Json": {"answer": 42}}`, want: JSON{Value: map[string]any{"answer": float64(42)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalResponse([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshalResponseRejectsMalformed(t *testing.T) {
	inputs := []string{
		`{"Html": "<p>x</p>"}`,
		`{"Text": "a", "Markdown": "b"}`,
		`{"Text": 3}`,
		`42`,
		`{}`,
	}
	for _, in := range inputs {
		_, err := UnmarshalResponse([]byte(in))
		assert.True(t, apperrors.IsMalformedRecord(err), "input %s", in)
	}
}

func TestMarshalResponseWritesTaggedForm(t *testing.T) {
	data, err := MarshalResponse(Markdown("*hi*"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Markdown": "*hi*"}`, string(data))

	data, err = MarshalResponse(JSON{Value: []any{"a", "b"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Json": ["a", "b"]}`, string(data))
}

func TestNewTrainingExampleRejectsNonPositiveWeight(t *testing.T) {
	for _, w := range []float64{0, -1} {
		_, err := NewTrainingExample("q", Text("a"), w)
		assert.True(t, apperrors.IsInvalidWeight(err), "weight %v", w)
	}

	ex, err := NewTrainingExample("q", Text("a"), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ex.Weight)
}

func TestTrainingExampleJSON(t *testing.T) {
	var examples []TrainingExample
	data := `[
		{"input": "legacy", "output": "plain answer"},
		{"input": "modern", "output": {"Markdown": "*answer*"}, "weight": 2.5, "metadata": {"source": "faq"}}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &examples))
	require.Len(t, examples, 2)

	assert.Equal(t, Text("plain answer"), examples[0].Output)
	assert.Equal(t, DefaultWeight, examples[0].Weight)
	assert.Nil(t, examples[0].Metadata)

	assert.Equal(t, Markdown("*answer*"), examples[1].Output)
	assert.Equal(t, 2.5, examples[1].Weight)
	assert.Equal(t, "faq", examples[1].Metadata["source"])

	out, err := json.Marshal(examples[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"input": "modern", "output": {"Markdown": "*answer*"}, "weight": 2.5, "metadata": {"source": "faq"}}`, string(out))
}

func TestTrainingExampleJSONRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "zero_weight", in: `{"input": "q", "output": "a", "weight": 0}`},
		{name: "missing_output", in: `{"input": "q"}`},
		{name: "wrong_input_type", in: `{"input": 5, "output": "a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ex TrainingExample
			err := json.Unmarshal([]byte(tt.in), &ex)
			assert.True(t, apperrors.IsMalformedRecord(err))
		})
	}

	var ex TrainingExample
	err := json.Unmarshal([]byte(`{"input": "q", "output": "a", "weight": -2}`), &ex)
	assert.True(t, apperrors.IsInvalidWeight(err))
}
