// Package pinecone implements contentstore against the Pinecone assistant
// file API. Each destination handle maps to one named assistant index.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
)

const (
	defaultBaseURL = "https://prod-1-data.ke.pinecone.io"
	defaultTimeout = 30 * time.Second
)

// Store is a Pinecone-backed contentstore.Store.
type Store struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

var _ contentstore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithBaseURL overrides the service base URL. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(s *Store) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Store) {
		if hc != nil {
			s.client = hc
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Pinecone content store client.
//
// Returns contentstore.Store interface to enforce abstraction.
func NewStore(apiKey string, opts ...Option) (contentstore.Store, error) {
	if apiKey == "" {
		return nil, contentstore.ErrAPIKeyRequired
	}

	s := &Store{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default().With("component", "pinecone-store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Destination returns a handle on the named assistant index.
func (s *Store) Destination(indexName string) contentstore.Destination {
	return &destination{store: s, index: indexName}
}

type destination struct {
	store *Store
	index string
}

type fileJSON struct {
	Id       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Size     int64             `json:"size,omitempty"`
}

func (f fileJSON) toFile() contentstore.File {
	return contentstore.File{
		Id:       f.Id,
		Name:     f.Name,
		Metadata: contentstore.FileMetadata(f.Metadata),
		Size:     f.Size,
	}
}

// ListFiles returns the files in the index.
func (d *destination) ListFiles(ctx context.Context) ([]contentstore.File, error) {
	endpoint := d.store.baseURL + "/assistant/files/" + url.PathEscape(d.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", d.store.apiKey)

	resp, err := d.store.client.Do(req)
	if err != nil {
		return nil, &contentstore.ConnectionError{Op: "list files", Err: err}
	}
	defer resp.Body.Close()

	if err := d.checkStatus("list files", resp); err != nil {
		return nil, err
	}

	var listing struct {
		Files []fileJSON `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode file listing: %w", err)
	}

	files := make([]contentstore.File, len(listing.Files))
	for i, f := range listing.Files {
		files[i] = f.toFile()
	}
	return files, nil
}

// UploadFile uploads the file at path as a multipart form.
func (d *destination) UploadFile(ctx context.Context, path string, metadata contentstore.FileMetadata) (*contentstore.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := d.store.baseURL + "/assistant/files/" + url.PathEscape(d.index)
	if len(metadata) > 0 {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		endpoint += "?metadata=" + url.QueryEscape(string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", d.store.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.store.client.Do(req)
	if err != nil {
		return nil, &contentstore.ConnectionError{Op: "upload file", Err: err}
	}
	defer resp.Body.Close()

	if err := d.checkStatus("upload file", resp); err != nil {
		return nil, err
	}

	var uploaded fileJSON
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	d.store.logger.Debug("file uploaded", "index", d.index, "file_id", uploaded.Id)
	file := uploaded.toFile()
	return &file, nil
}

// DeleteFile removes a file by id.
func (d *destination) DeleteFile(ctx context.Context, fileID string) error {
	endpoint := d.store.baseURL + "/assistant/files/" + url.PathEscape(d.index) + "/" + url.PathEscape(fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Api-Key", d.store.apiKey)

	resp, err := d.store.client.Do(req)
	if err != nil {
		return &contentstore.ConnectionError{Op: "delete file", Err: err}
	}
	defer resp.Body.Close()

	return d.checkStatus("delete file", resp)
}

// checkStatus translates non-2xx responses into classified errors.
func (d *destination) checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", contentstore.ErrIndexNotFound, d.index)
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("content store: %s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
}
