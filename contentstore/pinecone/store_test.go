package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.Handler) contentstore.Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewStore("test-api-key", WithBaseURL(srv.URL))
	require.NoError(t, err)
	return store
}

func TestNewStore_RequiresAPIKey(t *testing.T) {
	_, err := NewStore("")
	require.ErrorIs(t, err, contentstore.ErrAPIKeyRequired)
}

func TestDestination_ListFiles(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/assistant/files/support-kb", r.URL.Path)
		require.Equal(t, "test-api-key", r.Header.Get("Api-Key"))
		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]any{
				{"id": "f-1", "name": "url-abc.md", "metadata": map[string]string{"source": "https://example.com"}},
			},
		})
	}))

	files, err := store.Destination("support-kb").ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "f-1", files[0].Id)
	assert.Equal(t, "https://example.com", files[0].Metadata["source"])
}

func TestDestination_ListFiles_IndexNotFound(t *testing.T) {
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"assistant not found"}`, http.StatusNotFound)
	}))

	_, err := store.Destination("missing-kb").ListFiles(context.Background())
	require.ErrorIs(t, err, contentstore.ErrIndexNotFound)
	assert.False(t, contentstore.IsConnectionError(err))
}

func TestDestination_ConnectionErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	store, err := NewStore("test-api-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = store.Destination("support-kb").ListFiles(context.Background())
	require.Error(t, err)
	assert.True(t, contentstore.IsConnectionError(err))
}

func TestDestination_UploadFile(t *testing.T) {
	tempPath := filepath.Join(t.TempDir(), "url-test.md")
	require.NoError(t, os.WriteFile(tempPath, []byte("# Hello"), 0o644))

	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/assistant/files/support-kb", r.URL.Path)

		var meta map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("metadata")), &meta))
		assert.Equal(t, "https://example.com", meta["source"])

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "url-test.md", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{"id": "f-9", "name": header.Filename})
	}))

	uploaded, err := store.Destination("support-kb").UploadFile(context.Background(), tempPath,
		contentstore.FileMetadata{"source": "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "f-9", uploaded.Id)
}

func TestDestination_DeleteFile(t *testing.T) {
	var deletedPath string
	store := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deletedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	err := store.Destination("support-kb").DeleteFile(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Equal(t, "/assistant/files/support-kb/f-1", deletedPath)
}
