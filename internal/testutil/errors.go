// Package testutil provides fixtures and test doubles for customizer tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for simulating failures in tests.
var (
	// ErrMockLLM simulates a failed LLM call.
	ErrMockLLM = errors.New("llm unavailable")

	// ErrMockStorage simulates a failed storage operation.
	ErrMockStorage = errors.New("storage unavailable")

	// ErrMockNetwork simulates a network failure.
	ErrMockNetwork = errors.New("network error")
)
