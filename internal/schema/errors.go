package schema

import (
	"fmt"
)

// FetchError occurs when the schema request cannot be completed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch schema from '%s': %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError occurs when Elasticsearch answers with a non-success status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("schema request to '%s' failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}
