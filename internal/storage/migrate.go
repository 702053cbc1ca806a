package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations brings the SQLite schema at dbPath up to date.
func RunMigrations(dbPath string) error {
	return runMigrations("sqlite", dbPath, "migrations/sqlite", func(db *sql.DB) (database.Driver, error) {
		return sqlite.WithInstance(db, &sqlite.Config{})
	})
}

// RunPostgresMigrations brings the Postgres schema at databaseURL up to date.
func RunPostgresMigrations(databaseURL string) error {
	return runMigrations("pgx", databaseURL, "migrations/postgres", func(db *sql.DB) (database.Driver, error) {
		return migratepgx.WithInstance(db, &migratepgx.Config{})
	})
}

func runMigrations(driverName, dsn, dir string, instance func(*sql.DB) (database.Driver, error)) error {
	// The migrator closes its own connection, so it never shares the gateway's pool.
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	driver, err := instance(db)
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", driverName, err)
	}
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
