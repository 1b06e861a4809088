package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/places"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/visits"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Places(db dbx.DBTX) places.Repository
	Visits(db dbx.DBTX) visits.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
