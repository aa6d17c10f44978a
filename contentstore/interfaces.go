package contentstore

import "context"

// FileMetadata is the free-form metadata attached to an uploaded file.
type FileMetadata map[string]string

// File describes a document held by the content store.
type File struct {
	Id       string
	Name     string
	Metadata FileMetadata
	Size     int64
}

// Destination is a handle on one content-store index. Handles are cheap to
// create and do not verify that the index exists; operations report
// ErrIndexNotFound when it does not.
type Destination interface {
	// ListFiles returns the files currently held by the index.
	// Also serves as a cheap existence probe.
	ListFiles(ctx context.Context) ([]File, error)

	// UploadFile uploads the file at path with the given metadata.
	// Returns the store-assigned file descriptor.
	// Uploads are all-or-nothing per attempt.
	UploadFile(ctx context.Context, path string, metadata FileMetadata) (*File, error)

	// DeleteFile removes a file by its store-assigned id.
	DeleteFile(ctx context.Context, fileID string) error
}

// Store provides access to per-index destination handles.
// Implementations must be safe for concurrent use.
type Store interface {
	// Destination returns a handle on the named index.
	Destination(indexName string) Destination
}
