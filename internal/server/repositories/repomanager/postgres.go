// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cardsync/internal/dbx"
	"github.com/dmitrijs2005/cardsync/internal/server/migrations"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/appconfig"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/breakdowns"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/progress"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Progress returns a progress.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Progress(db dbx.DBTX) progress.Repository {
	return progress.NewPostgresRepository(db)
}

// Breakdowns returns a breakdowns.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Breakdowns(db dbx.DBTX) breakdowns.Repository {
	return breakdowns.NewPostgresRepository(db)
}

// AppConfig returns an appconfig.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) AppConfig(db dbx.DBTX) appconfig.Repository {
	return appconfig.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
