package agent

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "answerbase/errors"
)

// ResponseKind names a ResponseFormat variant. The names double as the JSON tags.
type ResponseKind string

const (
	KindText     ResponseKind = "Text"
	KindMarkdown ResponseKind = "Markdown"
	KindJSON     ResponseKind = "Json"
)

// ResponseFormat is the answer stored with a training example. It is a closed set:
// Text, Markdown and JSON are the only implementations.
type ResponseFormat interface {
	fmt.Stringer
	Kind() ResponseKind
	isResponse()
}

// Text is plain, unformatted text.
type Text string

// Markdown is text meant to be rendered as markdown.
type Markdown string

// JSON carries a structured value. String renders it as compact JSON.
type JSON struct {
	Value any
}

func (t Text) String() string { return string(t) }

// Kind reports KindText.
func (Text) Kind() ResponseKind { return KindText }

func (Text) isResponse() {}

func (m Markdown) String() string { return string(m) }

// Kind reports KindMarkdown.
func (Markdown) Kind() ResponseKind { return KindMarkdown }

func (Markdown) isResponse() {}

// Kind reports KindJSON.
func (JSON) Kind() ResponseKind { return KindJSON }

func (JSON) isResponse() {}

func (j JSON) String() string {
	data, err := json.Marshal(j.Value)
	if err != nil {
		return fmt.Sprintf("%v", j.Value)
	}
	return string(data)
}

// MarshalResponse encodes a response in its tagged object form, e.g. {"Text":"..."}.
func MarshalResponse(r ResponseFormat) ([]byte, error) {
	switch v := r.(type) {
	case Text:
		return json.Marshal(map[string]string{string(KindText): string(v)})
	case Markdown:
		return json.Marshal(map[string]string{string(KindMarkdown): string(v)})
	case JSON:
		return json.Marshal(map[string]any{string(KindJSON): v.Value})
	case nil:
		return json.Marshal(map[string]string{string(KindText): ""})
	default:
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "unknown response type %T", r)
	}
}

// UnmarshalResponse decodes a response. A bare JSON string is the legacy spelling of Text.
func UnmarshalResponse(data []byte) (ResponseFormat, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, apperrors.WrapErrorf(apperrors.ErrMalformedRecord, "output: %v", err)
		}
		return Text(s), nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &tagged); err != nil {
		return nil, apperrors.WrapErrorf(apperrors.ErrMalformedRecord, "output: %v", err)
	}
	if len(tagged) != 1 {
		return nil, apperrors.WrapErrorf(apperrors.ErrMalformedRecord, "output must have exactly one variant, got %d", len(tagged))
	}

	for tag, raw := range tagged {
		switch ResponseKind(tag) {
		case KindText, KindMarkdown:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, apperrors.WrapErrorf(apperrors.ErrMalformedRecord, "output %s: %v", tag, err)
			}
			if ResponseKind(tag) == KindText {
				return Text(s), nil
			}
			return Markdown(s), nil
		case KindJSON:
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, apperrors.WrapErrorf(apperrors.ErrMalformedRecord, "output Json: %v", err)
			}
			return JSON{Value: v}, nil
		default:
			return nil, apperrors.WrapErrorf(apperrors.ErrMalformedRecord, "unknown output variant %q", tag)
		}
	}
	return nil, apperrors.ErrMalformedRecord
}
