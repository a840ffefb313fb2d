package llm

import "fmt"

// CompletionError indicates a failed text-generation request: network
// errors, non-success provider status, or an unusable/empty response body.
// It is recoverable at the level of a single request.
type CompletionError struct {
	Op      string // connect, generate, parse
	Message string
	Cause   error
}

func (e *CompletionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("completion %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("completion %s: %s", e.Op, e.Message)
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}
