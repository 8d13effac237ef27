package models

import "errors"

// Typed failure channel for the fetch+normalize step. Callers branch on
// these instead of a single collapsed "not found" sentinel, so transient
// failures can be retried while genuine unknowns are not.
var (
	// ErrSymbolNotFound means no spelling variant yielded data.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrUpstream marks transient upstream failures (network, 5xx, throttle).
	ErrUpstream = errors.New("upstream unavailable")

	// ErrMalformedPayload marks upstream payloads that could not be parsed
	// into a canonical bar table.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)
