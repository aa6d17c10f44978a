package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDestination indicates a Destination failed validation.
	ErrInvalidDestination = errors.New("invalid destination")

	// ErrInvalidRequest indicates an IngestionRequest failed validation.
	ErrInvalidRequest = errors.New("invalid ingestion request")

	// ErrEmptyOwner indicates the OwnerId field is empty.
	ErrEmptyOwner = errors.New("owner id cannot be empty")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyStoreIndex indicates the StoreIndex field is empty.
	ErrEmptyStoreIndex = errors.New("store index cannot be empty")

	// ErrMalformedURL indicates a target URL is not a valid absolute URL.
	ErrMalformedURL = errors.New("target url must be a valid absolute url")
)
