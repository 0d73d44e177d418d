package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// FieldError names the configuration key that failed validation. It matches
// ErrInvalidConfig under errors.Is.
type FieldError struct {
	// Key is the koanf key, e.g. "cluster_k"; the env form is PLAYSTYLE_ plus
	// the upper-cased key.
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Key, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidConfig }
