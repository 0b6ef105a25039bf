// Package db opens the SQLite catalogue and keeps its schema current.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/httpfs"

	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// busyTimeoutMs lets the importer and API writers wait on each other
// instead of failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

// InitDB opens the catalogue at path and checks the connection.
func InitDB(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := configure(database); err != nil {
		database.Close()
		return nil, err
	}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

func configure(database *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMs),
	}
	for _, pragma := range pragmas {
		if _, err := database.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return nil
}

// RunMigrations brings the schema up to the newest embedded migration.
// Running it against an up-to-date database is a no-op.
func RunMigrations(database *sql.DB) error {
	if err := configure(database); err != nil {
		return err
	}
	m, err := newMigrator(database)
	if err != nil {
		return err
	}

	log.Println("Applying database migrations from embedded files...")
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("an error occurred while applying migrations: %w", err)
	}
	log.Println("Migrations applied successfully.")
	return nil
}

// SchemaVersion reports the applied migration version and whether the last
// migration left the schema dirty. A database that was never migrated
// reports version 0.
func SchemaVersion(database *sql.DB) (uint, bool, error) {
	m, err := newMigrator(database)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

// newMigrator must not be closed: the sqlite3 driver would close database
// along with it.
func newMigrator(database *sql.DB) (*migrate.Migrate, error) {
	source, err := httpfs.New(http.FS(migrationsFS), "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not create migration source: %w", err)
	}
	driver, err := sqlite3.WithInstance(database, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create sqlite3 migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("httpfs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
