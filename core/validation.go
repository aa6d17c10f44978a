package core

import (
	"fmt"
	"net/url"
)

// ValidateDestination validates a Destination according to domain rules.
//
// Validation rules:
//   - OwnerId must not be empty
//   - Name must not be empty
//   - StoreIndex must not be empty
//
// NOT validated (populated by storage):
//   - Id (assigned on insert)
//   - InsertedAt / UpdatedAt timestamps
func ValidateDestination(dest *Destination) error {
	if dest == nil {
		return fmt.Errorf("%w: destination is nil", ErrInvalidDestination)
	}

	if dest.OwnerId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDestination, ErrEmptyOwner)
	}

	if dest.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDestination, ErrEmptyName)
	}

	if dest.StoreIndex == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDestination, ErrEmptyStoreIndex)
	}

	return nil
}

// MissingRequestFields returns the names of required IngestionRequest fields
// that are absent, in a stable order. An empty slice means all required
// fields are present.
func MissingRequestFields(req *IngestionRequest) []string {
	var missing []string
	if req.DestinationId == "" {
		missing = append(missing, "destinationId")
	}
	if req.StoreIndex == "" {
		missing = append(missing, "contentStoreId")
	}
	if req.TargetURL == "" {
		missing = append(missing, "targetUrl")
	}
	return missing
}

// ValidateTargetURL checks that raw parses as an absolute URL with a host.
func ValidateTargetURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrMalformedURL, raw)
	}
	return nil
}
