package badger

import (
	"fmt"

	"github.com/SigireddyBalasai/hey-bear-sub000/core"
)

// Key prefixes for different data types
const (
	destinationPrefix      = "dstrec"
	destinationOwnerPrefix = "dstown"
	apiKeyPrefix           = "keyrec"
)

// makeDestinationKey generates a key for a destination record by id.
func makeDestinationKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", destinationPrefix, id))
}

// makeDestinationOwnerKey generates a composite key for the owner index.
// Format: prefix:ownerID:destinationID
func makeDestinationOwnerKey(ownerID, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", destinationOwnerPrefix, ownerID, id))
}

// makePartialDestinationOwnerKey generates a prefix for owner scans.
// Format: prefix:ownerID:
func makePartialDestinationOwnerKey(ownerID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", destinationOwnerPrefix, ownerID))
}

// makeAPIKeyKey generates a key for an API key record by digest.
func makeAPIKeyKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", apiKeyPrefix, id))
}
