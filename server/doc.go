// Package server exposes the ingestion pipeline and destination management
// over HTTP. All routes are JSON under /v1 and require a bearer API key,
// except the health probe. Concurrent ingest requests are bounded by a
// non-blocking worker pool; when the pool is saturated the server sheds
// load with 503 instead of queueing.
package server
