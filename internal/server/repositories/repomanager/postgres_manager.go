// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/places"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/visits"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook. Sessions may be redirected to a
// separate store with WithSessionStore.
type PostgresRepositoryManager struct {
	sessionStore sessions.Repository
}

type Option func(*PostgresRepositoryManager)

// WithSessionStore makes Sessions return store regardless of the DBTX it is
// given. Session writes then happen outside any SQL transaction.
func WithSessionStore(store sessions.Repository) Option {
	return func(m *PostgresRepositoryManager) {
		m.sessionStore = store
	}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Places(db dbx.DBTX) places.Repository {
	return places.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Visits(db dbx.DBTX) visits.Repository {
	return visits.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	if m.sessionStore != nil {
		return m.sessionStore
	}
	return sessions.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager(opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
