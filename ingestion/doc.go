// Package ingestion turns a URL into a searchable document in a
// destination's content store.
//
// The Pipeline type manages the ingestion workflow for one request:
//   - Validating inputs and resolving the destination record
//   - Submitting a crawl task to the remote crawl service
//   - Polling the task within a bounded attempt/wall-clock budget
//   - Selecting and enriching the crawled content
//   - Uploading the resulting document with classified retry
//
// Each invocation is independent and strictly sequential; the pipeline
// holds no mutable state between requests. A crawl that outlives the poll
// budget is reported as a pending outcome rather than a failure, carrying
// the task id so the caller can check back later.
package ingestion
