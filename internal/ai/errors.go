package ai

import (
	"errors"
	"fmt"
)

// ErrNetwork marks a generation failure where no HTTP response was
// received. Failures with a response are reported as *APIError.
var ErrNetwork = errors.New("generation network error")

// APIError is a non-success HTTP response from the generation service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generation api error: status %d: %s", e.StatusCode, e.Body)
}
