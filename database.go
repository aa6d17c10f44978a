package concierge

import (
	"log/slog"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
	"github.com/SigireddyBalasai/hey-bear-sub000/ingestion"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage/badger"
)

// Database bundles the storage backend and the repositories built on it.
// It is the single handle commands open, use, and close.
type Database struct {
	backend  *badger.Backend
	destRepo storage.DestinationRepository
	keyRepo  storage.APIKeyRepository
	logger   *slog.Logger
}

// OpenDatabase opens the backing store at filePath and wires the
// repositories. Close releases everything in reverse order.
func OpenDatabase(filePath string) (*Database, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	destRepo, err := badger.NewDestinationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	keyRepo, err := badger.NewAPIKeyRepository(backend)
	if err != nil {
		destRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		destRepo: destRepo,
		keyRepo:  keyRepo,
		logger:   slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.keyRepo.Close(); err != nil {
		db.logger.Error("error closing api key repository", "err", err)
		return err
	}
	if err := db.destRepo.Close(); err != nil {
		db.logger.Error("error closing destination repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DestinationRepository() storage.DestinationRepository {
	return db.destRepo
}

func (db *Database) APIKeyRepository() storage.APIKeyRepository {
	return db.keyRepo
}

// NewIngestionPipeline builds a pipeline over this database's
// destination repository and the given external services.
func (db *Database) NewIngestionPipeline(crawl ingestion.CrawlService, store contentstore.Store, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.destRepo, crawl, store, opts...)
}
