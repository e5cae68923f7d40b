package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoDataset = errors.New("no dataset loaded")
)
