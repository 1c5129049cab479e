// Package storage opens the device-local SQLite database, runs schema
// migrations, and hands out repository instances bound to it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cardsync/internal/client/migrations"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/breakdowns"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/progress"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the local repos plus the owning DB handle.
type Repositories struct {
	Progress   progress.Repository
	Breakdowns breakdowns.Repository
	Metadata   metadata.Repository
	DB         *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local database at dsn,
// applies pending migrations, and returns the repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Progress:   progress.NewSQLiteRepository(db),
		Breakdowns: breakdowns.NewSQLiteRepository(db),
		Metadata:   metadata.NewSQLiteRepository(db),
		DB:         db,
	}, nil
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
