// Package contentstore provides the content-store abstraction layer.
//
// This package defines the interfaces that decouple the ingestion pipeline
// from the vector/document index service holding destination knowledge
// files. It follows the "return interface" pattern: production constructors
// (pinecone.NewStore) return these interfaces so consumers never couple to
// a concrete backend.
//
// # Error Classification
//
// Store errors fall into two classes the pipeline treats differently:
//
//   - ErrIndexNotFound: the destination index does not exist. Fatal,
//     never retried.
//   - *ConnectionError: the service was unreachable or timed out.
//     Retryable; check with IsConnectionError.
//
// Any other error is neither retried nor downgraded.
package contentstore
