package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorPreservesKind(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "no_match", err: ErrNoMatch, check: IsNoMatch},
		{name: "empty_query", err: ErrEmptyQuery, check: IsEmptyQuery},
		{name: "invalid_weight", err: ErrInvalidWeight, check: IsInvalidWeight},
		{name: "invalid_argument", err: ErrInvalidArgument, check: IsInvalidArgument},
		{name: "malformed_record", err: ErrMalformedRecord, check: IsMalformedRecord},
		{name: "not_found", err: ErrNotFound, check: IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapErrorf(WrapError(tt.err, "inner"), "outer %d", 1)
			assert.True(t, tt.check(wrapped))
			assert.Contains(t, wrapped.Error(), "outer 1: inner: ")
		})
	}
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %s", "x"))
}

func TestKindsAreDistinct(t *testing.T) {
	assert.False(t, IsNoMatch(ErrEmptyQuery))
	assert.False(t, IsEmptyQuery(errors.New("query has no searchable terms")))
}
