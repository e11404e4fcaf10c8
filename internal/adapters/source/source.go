// Package source provides the record sources the trainer reads labeled memos from.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/memoclass/internal/domain/model"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Source returns every labeled record currently available.
type Source interface {
	Fetch(ctx context.Context) (model.Dataset, error)
	Close() error
}

// Config selects and parameterises a source.
type Config struct {
	Driver   string
	DSN      string
	Path     string
	Feedback bool
	Migrate  bool
}

// Open builds the source named by cfg.Driver. SQL sources are connected and,
// when cfg.Migrate is set, brought to the latest schema first.
func Open(ctx context.Context, cfg Config) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverSQLite, DriverPostgres:
		driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
		if cfg.Migrate {
			if err := Migrate(ctx, driver, cfg.DSN); err != nil {
				return nil, err
			}
		}
		return NewSQLSource(ctx, driver, cfg.DSN, WithFeedback(cfg.Feedback))
	case DriverFile:
		return NewFileSource(cfg.Path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
