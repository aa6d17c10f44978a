package contentstore

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound indicates the destination index does not exist.
	ErrIndexNotFound = errors.New("content store index not found")

	// ErrAPIKeyRequired is returned when a store is constructed without an API key.
	ErrAPIKeyRequired = errors.New("content store api key required")
)

// ConnectionError wraps a transport-level failure reaching the content
// store: refused connections, timeouts, DNS failures. These are the only
// store errors the pipeline retries.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("content store: %s: connection error: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is connection-class.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
