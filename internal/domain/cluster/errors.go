package cluster

import "errors"

// ErrInvalidParameter is returned when k or a k range does not fit the data.
var ErrInvalidParameter = errors.New("invalid clustering parameter")
