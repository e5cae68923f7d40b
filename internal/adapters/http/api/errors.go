package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrInFlight   = errors.New("a request with this idempotency key is still running")
)
