package style

import "errors"

// Sentinel errors for interpretation and pipeline sequencing.
var (
	ErrStageOrder     = errors.New("pipeline stage called out of order")
	ErrUnknownCluster = errors.New("unknown cluster")
	ErrNotClassified  = errors.New("entity not classified")
)
