// Package mock provides test double implementations of the contentstore
// interfaces. The mocks allow tests to run without a live index service and
// enable controlled failure injection via function fields.
package mock

import (
	"context"
	"sync"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
)

// MockStore is a test double for contentstore.Store.
// It returns one shared MockDestination per index name.
type MockStore struct {
	mu           sync.Mutex
	destinations map[string]*MockDestination
}

var _ contentstore.Store = (*MockStore)(nil)

// NewMockStore creates a mock store with default in-memory behavior.
func NewMockStore() *MockStore {
	return &MockStore{destinations: make(map[string]*MockDestination)}
}

// Destination returns the mock handle for an index, creating it on first use.
func (s *MockStore) Destination(indexName string) contentstore.Destination {
	return s.MockDestination(indexName)
}

// MockDestination returns the concrete mock handle for test assertions.
func (s *MockStore) MockDestination(indexName string) *MockDestination {
	s.mu.Lock()
	defer s.mu.Unlock()
	dest, ok := s.destinations[indexName]
	if !ok {
		dest = NewMockDestination()
		s.destinations[indexName] = dest
	}
	return dest
}

// MockDestination is a test double for contentstore.Destination.
// It allows custom behavior injection via function fields.
type MockDestination struct {
	// ListFilesFunc is called by ListFiles if set.
	// If nil, returns the in-memory file list.
	ListFilesFunc func(ctx context.Context) ([]contentstore.File, error)

	// UploadFileFunc is called by UploadFile if set.
	// If nil, records the file in memory and assigns a sequential id.
	UploadFileFunc func(ctx context.Context, path string, metadata contentstore.FileMetadata) (*contentstore.File, error)

	// DeleteFileFunc is called by DeleteFile if set.
	DeleteFileFunc func(ctx context.Context, fileID string) error

	mu          sync.Mutex
	files       []contentstore.File
	listCalls   int
	uploadCalls int
	deleteCalls int
}

var _ contentstore.Destination = (*MockDestination)(nil)

// NewMockDestination creates a mock destination with default in-memory behavior.
// Note: Returns concrete type to allow test assertions via call counters.
func NewMockDestination() *MockDestination {
	return &MockDestination{}
}

// ListFiles returns the in-memory file list or delegates to ListFilesFunc.
func (d *MockDestination) ListFiles(ctx context.Context) ([]contentstore.File, error) {
	d.mu.Lock()
	d.listCalls++
	fn := d.ListFilesFunc
	files := append([]contentstore.File(nil), d.files...)
	d.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return files, nil
}

// UploadFile records the upload or delegates to UploadFileFunc.
func (d *MockDestination) UploadFile(ctx context.Context, path string, metadata contentstore.FileMetadata) (*contentstore.File, error) {
	d.mu.Lock()
	d.uploadCalls++
	fn := d.UploadFileFunc
	d.mu.Unlock()

	if fn != nil {
		return fn(ctx, path, metadata)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	file := contentstore.File{
		Id:       "file-" + string(rune('a'+len(d.files))),
		Name:     path,
		Metadata: metadata,
	}
	d.files = append(d.files, file)
	return &file, nil
}

// DeleteFile removes a recorded file or delegates to DeleteFileFunc.
func (d *MockDestination) DeleteFile(ctx context.Context, fileID string) error {
	d.mu.Lock()
	d.deleteCalls++
	fn := d.DeleteFileFunc
	d.mu.Unlock()

	if fn != nil {
		return fn(ctx, fileID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.files[:0]
	for _, f := range d.files {
		if f.Id != fileID {
			kept = append(kept, f)
		}
	}
	d.files = kept
	return nil
}

// ListCalls returns the number of ListFiles invocations.
func (d *MockDestination) ListCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listCalls
}

// UploadCalls returns the number of UploadFile invocations.
func (d *MockDestination) UploadCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploadCalls
}

// DeleteCalls returns the number of DeleteFile invocations.
func (d *MockDestination) DeleteCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleteCalls
}
