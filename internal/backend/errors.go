package backend

import "fmt"

// APIError is a recognized application-level error from the marketplace
// backend: a non-2xx response carrying a human-readable message. Callers
// surface its message verbatim; anything else gets a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend rejected request (status %d): %s", e.Status, e.Message)
}
