package source

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies the embedded memo schema for driver. It uses its own
// connection, closed before returning.
func Migrate(ctx context.Context, driver, dsn string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrate, err)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("%w: open: %w", ErrMigrate, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %w: %w", ErrMigrate, ErrUnavailable, err)
	}

	var target database.Driver
	switch driver {
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case DriverPostgres:
		target, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %w", ErrMigrate, err)
	}

	src, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		_ = target.Close()
		return fmt.Errorf("%w: %w", ErrMigrate, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		_ = target.Close()
		return fmt.Errorf("%w: %w", ErrMigrate, err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %w", ErrMigrate, err)
	}
	return nil
}
