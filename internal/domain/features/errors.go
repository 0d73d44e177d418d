package features

import "errors"

// Sentinel errors for feature building and normalization.
var (
	ErrDataNotAvailable = errors.New("no valid entities after filtering")
	ErrEmptyMatrix      = errors.New("feature matrix is empty")
	ErrInvalidVariance  = errors.New("variance target must be in (0, 1]")
)
