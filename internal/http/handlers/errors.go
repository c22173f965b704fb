// Package handlers contains the plain HTTP endpoints around the hub: health
// and readiness probes plus small JSON response helpers. The real-time
// surface lives in the ws package.
package handlers

// Stable machine-readable error codes returned in JSON error envelopes.
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeInternal         = "internal_error"
)
