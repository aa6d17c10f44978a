package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrBaseURLRequired is returned when the client is constructed without a base URL.
	ErrBaseURLRequired = errors.New("crawler base url required")

	// ErrAPIKeyRequired is returned when the client is constructed without an API key.
	ErrAPIKeyRequired = errors.New("crawler api key required")

	// ErrNoTaskID is returned when task creation succeeds but no task id is present.
	ErrNoTaskID = errors.New("crawl response contained no task id")
)

// StatusError is a non-2xx response from the crawl service. Detail carries
// the remote error body when one was returned.
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("crawler: %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("crawler: %s: status %d: %s", e.Op, e.StatusCode, e.Detail)
}
