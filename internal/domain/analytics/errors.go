package analytics

import "errors"

// Sentinel kinds for analytics errors.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInsufficientModels = errors.New("must have at least two models")
)
