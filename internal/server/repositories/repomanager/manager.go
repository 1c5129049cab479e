package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cardsync/internal/dbx"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/appconfig"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/breakdowns"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/progress"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Progress(db dbx.DBTX) progress.Repository
	Breakdowns(db dbx.DBTX) breakdowns.Repository
	AppConfig(db dbx.DBTX) appconfig.Repository
}
