package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when question validation fails before any provider call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProvider is returned when an embedding or completion call fails.
	// Provider errors are fatal to the current request and are not retried here.
	ErrProvider = errors.New("provider error")
	// ErrVectorStore is returned when the vector search backend fails.
	ErrVectorStore = errors.New("vector store error")
	// ErrCacheMiss is returned by AnswerCache.Get when no entry exists for a key.
	ErrCacheMiss = errors.New("cache miss")
	// ErrMalformedProviderOutput is returned when a model response expected to be
	// structured JSON fails schema validation.
	ErrMalformedProviderOutput = errors.New("malformed provider output")
)

// ValidationError represents a client-side validation failure on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// WrapError wraps an error with additional context, preserving the chain.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
