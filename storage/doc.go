// Package storage provides the storage abstraction layer for the service.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction:
//
//	repo, err := badger.NewDestinationRepository(backend)  // storage.DestinationRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Repositories
//
//   - DestinationRepository: destination records (owner, name, store index)
//   - APIKeyRepository: API key digests for request authentication
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
