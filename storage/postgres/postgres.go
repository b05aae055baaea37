// Package postgres stores the audit log and the webhook destination in
// PostgreSQL for deployments that share one database between replicas.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // PostgreSQL driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

/* Store implements eventlog.Repository and webhook.DestinationRepository
 * Placeholders are $1, $2... and timestamps are TIMESTAMPTZ (microsecond
 * precision), which matches what the audit service stores.
 */
type Store struct {
	DB *sql.DB
}

// New opens a pool with the default settings (25 open, 5 idle, 5 min lifetime)
func New(dsn string) (*Store, error) {
	return NewWithPoolConfig(dsn, 25, 5, 5)
}

// NewWithPoolConfig opens a pool and applies pending migrations
// maxOpenConns: 0 means unlimited
// maxLifeMinutes: how long a connection may be reused
func NewWithPoolConfig(dsn string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{DB: db}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}
	driver, err := migratepostgres.WithInstance(db, &migratepostgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("closing postgres connection: %w", err)
	}
	return nil
}
