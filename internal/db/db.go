package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/AdamBeresnev/arena-bracket/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// Every connection enforces foreign keys and takes the write lock at BEGIN,
// so a second writer waits for the first and then reads its committed state.
var connectionParams = map[string]string{
	"_foreign_keys": "on",
	"_txlock":       "immediate",
	"_busy_timeout": "5000",
}

// InitDB opens the SQLite database at dsn. Connection parameters missing
// from dsn are filled in from connectionParams.
func InitDB(dsn string) (*sqlx.DB, error) {
	dsn = withConnectionParams(dsn)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", dsn, err)
	}

	log.Info().Str("dsn", dsn).Msg("Database connected")
	return db, nil
}

func withConnectionParams(dsn string) string {
	path, rawQuery, _ := strings.Cut(dsn, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	for key, value := range connectionParams {
		if query.Get(key) == "" {
			query.Set(key, value)
		}
	}
	return path + "?" + query.Encode()
}

// RunMigrations applies every embedded migration that has not run yet.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Info().Uint("version", version).Msg("Migrations applied")
	return nil
}

// OpenMemory returns a migrated in-memory database. The pool holds a single
// connection because every new connection would see an empty database.
func OpenMemory() (*sqlx.DB, error) {
	db, err := InitDB("file::memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
