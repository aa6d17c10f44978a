package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient("", "key")
	require.ErrorIs(t, err, ErrBaseURLRequired)

	_, err = NewClient("http://crawl.local", "")
	require.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestClient_Submit(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		URLs     []string `json:"urls"`
		Priority int      `json:"priority"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/crawl", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"task_id": "task-123"})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-key")
	require.NoError(t, err)

	taskID, err := client.Submit(context.Background(), "https://example.com/docs")
	require.NoError(t, err)
	assert.Equal(t, "task-123", taskID)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, []string{"https://example.com/docs"}, gotBody.URLs)
	assert.Equal(t, defaultPriority, gotBody.Priority)
}

func TestClient_Submit_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"detail": "queue full"})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-key")
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), "https://example.com")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "queue full", statusErr.Detail)
}

func TestClient_Submit_MissingTaskID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-key")
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), "https://example.com")
	require.True(t, errors.Is(err, ErrNoTaskID))
}

func TestClient_Task(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/task/task-123", r.URL.Path)
		require.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"status": "completed",
			"result": map[string]any{
				"url":     "https://example.com",
				"success": true,
				"markdown_v2": map[string]any{
					"raw_markdown":        "# Hello",
					"references_markdown": "[1] https://example.com/ref",
				},
				"metadata": map[string]any{"title": "Example"},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-key")
	require.NoError(t, err)

	task, err := client.Task(context.Background(), "task-123")
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, task.Status)
	assert.Equal(t, "task-123", task.TaskID)
	assert.True(t, task.Terminal())

	result := task.PrimaryResult()
	require.NotNil(t, result)
	require.NotNil(t, result.MarkdownV2)
	assert.Equal(t, "# Hello", result.MarkdownV2.RawMarkdown)
	assert.Equal(t, "Example", result.Metadata.Title)
}

func TestClient_Task_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-key")
	require.NoError(t, err)

	_, err = client.Task(context.Background(), "task-123")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestTask_PrimaryResult(t *testing.T) {
	t.Run("prefers single result", func(t *testing.T) {
		task := &Task{
			Result:  &Result{URL: "https://a.example"},
			Results: []Result{{URL: "https://b.example"}},
		}
		require.NotNil(t, task.PrimaryResult())
		assert.Equal(t, "https://a.example", task.PrimaryResult().URL)
	})

	t.Run("falls back to results array", func(t *testing.T) {
		task := &Task{Results: []Result{{URL: "https://b.example"}}}
		require.NotNil(t, task.PrimaryResult())
		assert.Equal(t, "https://b.example", task.PrimaryResult().URL)
	})

	t.Run("nil when absent", func(t *testing.T) {
		task := &Task{Status: TaskCompleted}
		assert.Nil(t, task.PrimaryResult())
	})
}
