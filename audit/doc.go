// Package audit walks every stored destination and verifies that its
// content-store index still exists and answers. It is an offline
// maintenance tool; the serving path never depends on it.
package audit
