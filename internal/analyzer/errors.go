package analyzer

import (
	"fmt"

	"midad/internal/domain"
)

// StatusError is returned when a provider answers with a non-success HTTP status.
// It unwraps to domain.ErrProvider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, Truncate(e.Body, 500))
}

func (e *StatusError) Unwrap() error {
	return domain.ErrProvider
}

// NewStatusError creates a StatusError from a raw response body.
func NewStatusError(provider string, status int, body []byte) *StatusError {
	return &StatusError{Provider: provider, StatusCode: status, Body: string(body)}
}

// Truncate shortens s to maxLen bytes for log and error output.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
