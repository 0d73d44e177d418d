package player

import "errors"

// Sentinel errors for player analysis.
var (
	ErrDataNotAvailable = errors.New("no player metrics for tenure")
	ErrNoRoleStatistics = errors.New("no statistics for player role")
)
