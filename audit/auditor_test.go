package audit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore/mock"
	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) storage.DestinationRepository {
	t.Helper()
	destRepo, keyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		keyRepo.Close()
		destRepo.Close()
		backend.Close()
	})
	return destRepo
}

func addDestination(t *testing.T, repo storage.DestinationRepository, name, index string) *core.Destination {
	t.Helper()
	dest, err := repo.AddDestination(context.Background(), &core.Destination{
		OwnerId:    "owner-1",
		Name:       name,
		StoreIndex: index,
	})
	require.NoError(t, err)
	return dest
}

func testConfig() *Config {
	return &Config{ReportInterval: 1, MaxRetries: 3, RetryDelay: time.Millisecond}
}

func TestNewAuditor_RequiresCollaborators(t *testing.T) {
	repo := setupRepo(t)

	_, err := NewAuditor(nil, mock.NewMockStore(), nil, nil)
	require.ErrorIs(t, err, ErrDestinationRepositoryRequired)

	_, err = NewAuditor(repo, nil, nil, nil)
	require.ErrorIs(t, err, ErrContentStoreRequired)
}

func TestRun_EmptyDatabase(t *testing.T) {
	repo := setupRepo(t)
	auditor, err := NewAuditor(repo, mock.NewMockStore(), testConfig(), io.Discard)
	require.NoError(t, err)

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
}

func TestRun_ClassifiesFindings(t *testing.T) {
	repo := setupRepo(t)
	store := mock.NewMockStore()

	healthy := addDestination(t, repo, "Healthy", "healthy-kb")
	missing := addDestination(t, repo, "Missing", "missing-kb")
	broken := addDestination(t, repo, "Broken", "broken-kb")

	store.MockDestination("missing-kb").ListFilesFunc = func(ctx context.Context) ([]contentstore.File, error) {
		return nil, contentstore.ErrIndexNotFound
	}
	store.MockDestination("broken-kb").ListFilesFunc = func(ctx context.Context) ([]contentstore.File, error) {
		return nil, errors.New("malformed response")
	}

	auditor, err := NewAuditor(repo, store, testConfig(), io.Discard)
	require.NoError(t, err)

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Findings, 3)

	byID := make(map[string]Finding)
	for _, f := range report.Findings {
		byID[f.Destination.Id] = f
	}
	assert.Equal(t, StatusOK, byID[healthy.Id].Status)
	assert.Equal(t, StatusIndexMissing, byID[missing.Id].Status)
	assert.Equal(t, StatusError, byID[broken.Id].Status)

	assert.Len(t, report.Unhealthy(), 2)
}

func TestProbe_RetriesConnectionErrors(t *testing.T) {
	repo := setupRepo(t)
	store := mock.NewMockStore()
	dest := addDestination(t, repo, "Flaky", "flaky-kb")

	attempts := 0
	store.MockDestination("flaky-kb").ListFilesFunc = func(ctx context.Context) ([]contentstore.File, error) {
		attempts++
		if attempts < 3 {
			return nil, &contentstore.ConnectionError{Op: "list files", Err: errors.New("timeout")}
		}
		return []contentstore.File{{Id: "f1"}}, nil
	}

	auditor, err := NewAuditor(repo, store, testConfig(), io.Discard)
	require.NoError(t, err)

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, StatusOK, report.Findings[0].Status)
	assert.Equal(t, 1, report.Findings[0].Files)
	assert.Equal(t, dest.Id, report.Findings[0].Destination.Id)
	assert.Equal(t, 3, attempts)
}

func TestProbe_UnreachableAfterRetries(t *testing.T) {
	repo := setupRepo(t)
	store := mock.NewMockStore()
	addDestination(t, repo, "Down", "down-kb")

	attempts := 0
	store.MockDestination("down-kb").ListFilesFunc = func(ctx context.Context) ([]contentstore.File, error) {
		attempts++
		return nil, &contentstore.ConnectionError{Op: "list files", Err: errors.New("refused")}
	}

	auditor, err := NewAuditor(repo, store, testConfig(), io.Discard)
	require.NoError(t, err)

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, StatusUnreachable, report.Findings[0].Status)
	assert.Equal(t, 3, attempts)
}

func TestRun_ReportsProgress(t *testing.T) {
	repo := setupRepo(t)
	addDestination(t, repo, "One", "one-kb")
	addDestination(t, repo, "Two", "two-kb")

	var buf bytes.Buffer
	auditor, err := NewAuditor(repo, mock.NewMockStore(), testConfig(), &buf)
	require.NoError(t, err)

	_, err = auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Auditing 2 destinations")
	assert.Contains(t, buf.String(), "Audit complete")
}
