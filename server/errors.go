package server

import "errors"

var (
	// ErrPipelineRequired is returned when an ingestion pipeline is not provided.
	ErrPipelineRequired = errors.New("ingestion pipeline required")

	// ErrDestinationRepositoryRequired is returned when a destination repository is not provided.
	ErrDestinationRepositoryRequired = errors.New("destination repository required")

	// ErrAPIKeyRepositoryRequired is returned when an API key repository is not provided.
	ErrAPIKeyRepositoryRequired = errors.New("api key repository required")

	// ErrCrawlServiceRequired is returned when a crawl service client is not provided.
	ErrCrawlServiceRequired = errors.New("crawl service required")

	// ErrContentStoreRequired is returned when a content store is not provided.
	ErrContentStoreRequired = errors.New("content store required")
)
