package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for hashed lookup keys.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. API keys are stored
// only as these 64-bit digests, never as plaintext.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Destination is a knowledge destination a user can ingest content into.
// StoreIndex names the content-store index backing it.
type Destination struct {
	Id         string
	OwnerId    string
	Name       string
	StoreIndex string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// APIKey is a stored credential record. The key material itself is not
// retained; Id is the BLAKE2b digest of the issued key.
type APIKey struct {
	Id         ID
	OwnerId    string
	Label      string
	InsertedAt time.Time
}

// IngestionRequest carries the inputs for one URL ingestion.
type IngestionRequest struct {
	OwnerId       string
	DestinationId string
	StoreIndex    string
	TargetURL     string
}

// IngestedDocument describes a document successfully written to a
// destination's content store. Created only after a successful upload.
type IngestedDocument struct {
	Id            string
	SourceURL     string
	Title         string
	Description   string
	ContentLength int
	OwnerId       string
	DestinationId string
}
