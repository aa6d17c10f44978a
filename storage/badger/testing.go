package badger

import "github.com/SigireddyBalasai/hey-bear-sub000/storage"

// NewMemoryRepositories creates in-memory destination and API key
// repositories for testing. Returns destRepo, keyRepo, backend, and error.
// Caller must close both repos and backend when done.
func NewMemoryRepositories() (storage.DestinationRepository, storage.APIKeyRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	destRepo, err := NewDestinationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	keyRepo, err := NewAPIKeyRepository(backend)
	if err != nil {
		destRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return destRepo, keyRepo, backend, nil
}
