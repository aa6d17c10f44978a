package badger

import (
	"context"
	"errors"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/dgraph-io/badger/v4"
)

// APIKeyRepository implements storage.APIKeyRepository for BadgerDB.
type APIKeyRepository struct {
	backend *Backend
}

var _ storage.APIKeyRepository = (*APIKeyRepository)(nil)

// NewAPIKeyRepository creates a new APIKeyRepository.
func NewAPIKeyRepository(backend *Backend) (*APIKeyRepository, error) {
	return &APIKeyRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *APIKeyRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *APIKeyRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAPIKey stores a key record addressed by its digest.
func (r *APIKeyRepository) AddAPIKey(ctx context.Context, key *core.APIKey) (*core.APIKey, error) {
	stored := *key
	stored.InsertedAt = time.Now().UTC()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		recordKey := makeAPIKeyKey(stored.Id)
		if _, err := tx.Get(recordKey); err == nil {
			return storage.ErrDuplicateKey
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := tx.Set(recordKey, storage.MarshalAPIKey(&stored)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// GetAPIKey retrieves a key record by digest.
func (r *APIKeyRepository) GetAPIKey(ctx context.Context, id core.ID) (*core.APIKey, error) {
	var key *core.APIKey
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAPIKeyKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			key, err = storage.UnmarshalAPIKey(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return key, nil
}

// DeleteAPIKey removes a key record by digest.
func (r *APIKeyRepository) DeleteAPIKey(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		recordKey := makeAPIKeyKey(id)
		if _, err := tx.Get(recordKey); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(recordKey); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
