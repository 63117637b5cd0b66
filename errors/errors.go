package errors

import (
	"errors"
	"fmt"
)

// Common error kinds returned by agents, the knowledge base and loaders.

var (
	// ErrNoMatch indicates no candidate satisfied the strategy's acceptance criterion,
	// or that the agent holds no training data
	ErrNoMatch = errors.New("no matching answer found")

	// ErrEmptyQuery indicates the query has no terms left after normalization
	ErrEmptyQuery = errors.New("query has no searchable terms")

	// ErrInvalidWeight indicates a training example with a non-positive weight
	ErrInvalidWeight = errors.New("training example weight must be positive")

	// ErrInvalidArgument indicates malformed configuration or input
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedRecord indicates a training record that could not be decoded
	ErrMalformedRecord = errors.New("malformed training record")

	// ErrNotFound indicates a requested entry does not exist
	ErrNotFound = errors.New("entry not found")
)

// WrapError wraps an error with context message
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsNoMatch checks if error is a no-match error
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsEmptyQuery checks if error is an empty query error
func IsEmptyQuery(err error) bool {
	return errors.Is(err, ErrEmptyQuery)
}

// IsInvalidWeight checks if error is an invalid weight error
func IsInvalidWeight(err error) bool {
	return errors.Is(err, ErrInvalidWeight)
}

// IsInvalidArgument checks if error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsMalformedRecord checks if error is a malformed record error
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
