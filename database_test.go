package concierge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore/mock"
	"github.com/SigireddyBalasai/hey-bear-sub000/crawler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCrawlService struct{}

func (stubCrawlService) Submit(ctx context.Context, targetURL string) (string, error) {
	return "task-1", nil
}

func (stubCrawlService) Task(ctx context.Context, taskID string) (*crawler.Task, error) {
	return &crawler.Task{TaskID: taskID, Status: crawler.TaskCompleted}, nil
}

func TestOpenDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := OpenDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.DestinationRepository())
		assert.NotNil(t, db.APIKeyRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := OpenDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := OpenDatabase(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_NewIngestionPipeline(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := OpenDatabase(tmpDir)
	require.NoError(t, err)
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(stubCrawlService{}, mock.NewMockStore())
	require.NoError(t, err)
	require.NotNil(t, pipeline)
}
