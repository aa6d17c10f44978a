package badger

import (
	"context"
	"errors"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// DestinationRepository implements storage.DestinationRepository for BadgerDB.
type DestinationRepository struct {
	backend *Backend
}

var _ storage.DestinationRepository = (*DestinationRepository)(nil)

// NewDestinationRepository creates a new DestinationRepository.
func NewDestinationRepository(backend *Backend) (*DestinationRepository, error) {
	return &DestinationRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *DestinationRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DestinationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDestination adds a destination to storage.
func (r *DestinationRepository) AddDestination(ctx context.Context, dest *core.Destination) (*core.Destination, error) {
	if err := core.ValidateDestination(dest); err != nil {
		return nil, err
	}

	stored := *dest
	if stored.Id == "" {
		stored.Id = uuid.NewString()
	}
	stored.InsertedAt = time.Now().UTC()
	stored.UpdatedAt = stored.InsertedAt

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDestinationKey(stored.Id)
		if _, err := tx.Get(key); err == nil {
			return storage.ErrDuplicateKey
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := tx.Set(key, storage.MarshalDestination(&stored)); err != nil {
			return err
		}

		// Owner index
		ownerKey := makeDestinationOwnerKey(stored.OwnerId, stored.Id)
		if err := tx.Set(ownerKey, []byte(stored.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// UpdateDestination updates an existing destination.
func (r *DestinationRepository) UpdateDestination(ctx context.Context, dest *core.Destination) (*core.Destination, error) {
	if err := core.ValidateDestination(dest); err != nil {
		return nil, err
	}

	stored := *dest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDestinationKey(stored.Id)

		old, err := r.readDestination(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		stored.InsertedAt = old.InsertedAt
		stored.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalDestination(&stored)); err != nil {
			return err
		}

		// Rewrite the owner index if ownership moved
		if old.OwnerId != stored.OwnerId {
			if err := tx.Delete(makeDestinationOwnerKey(old.OwnerId, old.Id)); err != nil {
				return err
			}
			if err := tx.Set(makeDestinationOwnerKey(stored.OwnerId, stored.Id), []byte(stored.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// DeleteDestination removes a destination by id.
func (r *DestinationRepository) DeleteDestination(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDestinationKey(id)

		old, err := r.readDestination(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Delete(makeDestinationOwnerKey(old.OwnerId, old.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetDestination retrieves a single destination by id.
func (r *DestinationRepository) GetDestination(ctx context.Context, id string) (*core.Destination, error) {
	var dest *core.Destination
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		dest, err = r.readDestination(tx, makeDestinationKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, storage.ErrNotFound
	}
	return dest, nil
}

// GetDestinationsByOwner retrieves all destinations belonging to an owner.
func (r *DestinationRepository) GetDestinationsByOwner(ctx context.Context, ownerID string) ([]*core.Destination, error) {
	var dests []*core.Destination

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialDestinationOwnerKey(ownerID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id string
			err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			dest, err := r.readDestination(tx, makeDestinationKey(id))
			if err != nil {
				return err
			}
			if dest != nil {
				dests = append(dests, dest)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return dests, nil
}

// ListDestinations retrieves every destination record.
func (r *DestinationRepository) ListDestinations(ctx context.Context) ([]*core.Destination, error) {
	var dests []*core.Destination

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(destinationPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				dest, err := storage.UnmarshalDestination(val)
				if err != nil {
					return err
				}
				dests = append(dests, dest)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return dests, nil
}

// readDestination reads and deserializes a destination record within a
// transaction. Returns nil without error when the key is absent.
func (r *DestinationRepository) readDestination(tx *badger.Txn, key []byte) (*core.Destination, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var dest *core.Destination
	err = item.Value(func(val []byte) error {
		var err error
		dest, err = storage.UnmarshalDestination(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dest, nil
}
