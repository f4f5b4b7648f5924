// Package service contains the application's business logic layer.
package service

import "fmt"

// ConfirmationRequiredError is returned by a mutating operation invoked
// without confirmed=true. It carries a structured confirmation request (kind
// plus a prompt naming the target) for the client to render; re-submitting
// the same operation with confirmed=true completes it.
type ConfirmationRequiredError struct {
	Kind   string `json:"kind"`
	Prompt string `json:"prompt"`
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("confirmation required: %s", e.Kind)
}

// ValidationError is a blocked submission: a required field is missing. No
// remote call has been attempted when it is returned.
type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}
