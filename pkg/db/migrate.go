package db

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"dashboard/pkg/config"
)

const DefaultMigrationsPath = "file://migrations"

// Migrate applies pending migrations from cfg.MigrationsPath (DefaultMigrationsPath when empty).
// ErrNoChange is not an error.
func Migrate(cfg config.Config) error {
	path := cfg.MigrationsPath
	if path == "" {
		path = DefaultMigrationsPath
	}
	m, err := migrate.New(path, migrationConnString(cfg))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}
	return nil
}
