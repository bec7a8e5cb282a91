package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a single violation found in an instance.
// Path is the dot-joined property path, empty at the root.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// AggregateValidationError carries every violation of a validation run, in
// input order.
type AggregateValidationError struct {
	Model  string
	Errors []ValidationError
}

func (e *AggregateValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Paths returns the path of every error, in order.
func (e *AggregateValidationError) Paths() []string {
	out := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err.Path
	}
	return out
}

// ValidationErrors returns all validation errors if err is, or wraps, an
// AggregateValidationError. Otherwise returns nil.
func ValidationErrors(err error) []ValidationError {
	var aggr *AggregateValidationError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
