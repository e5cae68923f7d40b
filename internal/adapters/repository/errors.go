package repository

import "errors"

// Sentinel kinds for archive and dataset errors.
var (
	ErrEmptyArchive = errors.New("cannot save an empty prediction table")
	ErrBadArchive   = errors.New("malformed prediction archive")
	ErrBadDataset   = errors.New("malformed dataset")
)
