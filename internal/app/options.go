package service

import (
	"time"

	"github.com/okian/memoclass/internal/adapters/artifact"
	"github.com/okian/memoclass/internal/adapters/source"
	"github.com/okian/memoclass/pkg/logger"
)

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithSource sets where labeled records are fetched from.
func WithSource(src source.Source) Option {
	return func(t *Trainer) {
		if src != nil {
			t.source = src
		}
	}
}

// WithStore sets where the fitted model is persisted.
func WithStore(store artifact.Store) Option {
	return func(t *Trainer) {
		if store != nil {
			t.store = store
		}
	}
}

// WithLogger sets a custom logger for the trainer.
func WithLogger(l logger.Logger) Option {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithAlpha sets the classifier smoothing constant. Non-positive values are ignored.
func WithAlpha(alpha float64) Option {
	return func(t *Trainer) {
		if alpha > 0 {
			t.alpha = alpha
		}
	}
}

// WithClock sets the time source stamped into artifact metadata.
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) {
		if now != nil {
			t.now = now
		}
	}
}
