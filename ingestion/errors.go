package ingestion

import (
	"errors"
	"strings"
)

var (
	// ErrDestinationRepositoryRequired is returned when a destination repository is not provided.
	ErrDestinationRepositoryRequired = errors.New("destination repository required")

	// ErrCrawlServiceRequired is returned when a crawl service client is not provided.
	ErrCrawlServiceRequired = errors.New("crawl service required")

	// ErrContentStoreRequired is returned when a content store is not provided.
	ErrContentStoreRequired = errors.New("content store required")

	// ErrInvalidMaxAttempts is returned when a retry helper is invoked with
	// a non-positive attempt budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)

// Kind classifies pipeline failures for transport mapping.
type Kind int

const (
	// KindInvalidRequest indicates missing or malformed request fields.
	KindInvalidRequest Kind = iota + 1
	// KindNotFound indicates the destination record does not exist.
	KindNotFound
	// KindUpstream indicates a collaborator failed in a way that is not the
	// caller's fault (destination lookup error, unreachable crawl service).
	KindUpstream
	// KindCrawlSubmission indicates the crawl service rejected task creation.
	KindCrawlSubmission
	// KindTaskStatus indicates a hard remote error while polling task status.
	KindTaskStatus
	// KindCrawlFailed indicates the remote crawl task reported failure.
	KindCrawlFailed
	// KindNoContent indicates a completed task yielded no usable content.
	KindNoContent
	// KindDestinationConfig indicates the content-store index was verified missing.
	KindDestinationConfig
	// KindConnection indicates the content store stayed unreachable after retries.
	KindConnection
	// KindUnexpected indicates an unclassified failure.
	KindUnexpected
)

// String returns the user-facing error label for a kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid request"
	case KindNotFound:
		return "destination not found"
	case KindUpstream:
		return "upstream error"
	case KindCrawlSubmission:
		return "failed to initiate crawl"
	case KindTaskStatus:
		return "failed to fetch task status"
	case KindCrawlFailed:
		return "crawl task failed"
	case KindNoContent:
		return "no content found"
	case KindDestinationConfig:
		return "destination content store misconfigured"
	case KindConnection:
		return "content store unavailable"
	default:
		return "unexpected error"
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	// MissingFields names the absent request fields for KindInvalidRequest.
	MissingFields []string
	// RemoteStatus carries the remote HTTP status for crawl service errors.
	RemoteStatus int
	Err          error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain.
// Unclassified errors report KindUnexpected.
func KindOf(err error) Kind {
	var pipeErr *Error
	if errors.As(err, &pipeErr) {
		return pipeErr.Kind
	}
	return KindUnexpected
}
