package repository

import "errors"

// Sentinel kinds for metric table errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrMissingColumn  = errors.New("csv column missing")
	ErrUnknownBackend = errors.New("unknown data source")
)
