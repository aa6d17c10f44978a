package storage

import (
	"context"

	"github.com/SigireddyBalasai/hey-bear-sub000/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DestinationRepository provides operations for managing destination records.
type DestinationRepository interface {
	Repository

	// AddDestination adds a destination to storage.
	// Assigns a new id when Id is empty.
	// Sets InsertedAt/UpdatedAt timestamps.
	// Returns the destination with id and timestamps populated.
	AddDestination(ctx context.Context, dest *core.Destination) (*core.Destination, error)

	// UpdateDestination updates an existing destination.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the destination doesn't exist.
	UpdateDestination(ctx context.Context, dest *core.Destination) (*core.Destination, error)

	// DeleteDestination removes a destination by id.
	// Also removes the owner index entry.
	// Returns ErrNotFound if the destination doesn't exist.
	DeleteDestination(ctx context.Context, id string) error

	// GetDestination retrieves a single destination by id.
	// Returns ErrNotFound if the destination doesn't exist.
	GetDestination(ctx context.Context, id string) (*core.Destination, error)

	// GetDestinationsByOwner retrieves all destinations belonging to an owner.
	GetDestinationsByOwner(ctx context.Context, ownerID string) ([]*core.Destination, error)

	// ListDestinations retrieves every destination regardless of owner.
	// Intended for administrative walks, not request handling.
	ListDestinations(ctx context.Context) ([]*core.Destination, error)
}

// APIKeyRepository provides operations for managing API key records.
// Key material is never stored; records are addressed by key digest.
type APIKeyRepository interface {
	Repository

	// AddAPIKey stores a key record addressed by its digest.
	// Sets the InsertedAt timestamp.
	AddAPIKey(ctx context.Context, key *core.APIKey) (*core.APIKey, error)

	// GetAPIKey retrieves a key record by digest.
	// Returns ErrNotFound if no key with that digest exists.
	GetAPIKey(ctx context.Context, id core.ID) (*core.APIKey, error)

	// DeleteAPIKey removes a key record by digest.
	// Returns ErrNotFound if no key with that digest exists.
	DeleteAPIKey(ctx context.Context, id core.ID) error
}
