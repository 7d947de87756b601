package task

import (
	"fmt"
	"strings"
)

// FieldError ties a validation failure to a field, and to a batch position when Index >= 0.
type FieldError struct {
	Index int
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("tasks[%d].%s: %v", e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ValidationError aggregates every failure found in a task or batch.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "invalid tasks: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Errors }

// Fields returns the failures keyed by field path, as shown to API clients.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, err := range e.Errors {
		key := "non_field_errors"
		msg := err.Error()
		if fe, ok := err.(*FieldError); ok {
			key = fe.Field
			if fe.Index >= 0 {
				key = fmt.Sprintf("%d.%s", fe.Index, fe.Field)
			}
			msg = fe.Err.Error()
		}
		out[key] = append(out[key], msg)
	}
	return out
}
