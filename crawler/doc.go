// Package crawler provides a client for the task-based remote crawl service.
//
// The service exposes two endpoints: task creation (POST /crawl) and task
// status (GET /task/{id}). Tasks transition pending -> processing ->
// {completed | failed} entirely on the remote side; this client only
// observes them. Submissions are rate limited client-side to avoid
// hammering the shared crawl endpoint.
package crawler
