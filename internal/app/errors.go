package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotReady        = errors.New("no analysis available")
	ErrMissingTenure   = errors.New("player has no tenure")
	ErrInvalidArgument = errors.New("invalid argument")
)
