package repository

import "github.com/okian/playstyle/pkg/logger"

// Option applies a configuration option to a store.
type Option func(*options)

type options struct {
	migrate bool
	log     logger.Logger
}

func newOptions(opts []Option) options {
	o := options{migrate: true, log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMigrate controls whether embedded migrations run when opening SQLite.
func WithMigrate(enabled bool) Option {
	return func(o *options) { o.migrate = enabled }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
