// Package state keeps the CLI's signed-in session between runs in a local
// SQLite file.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/visitkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyUsername    = "username"
	keyAccessToken = "access_token"
	keyExpiresAt   = "expires_at"
)

// Session is what the CLI remembers about the signed-in user.
type Session struct {
	Username    string
	AccessToken string
	ExpiresAt   time.Time
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// RunMigrations brings the state schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the state file at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate state: %w", err)
	}
	return NewStore(db), nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the remembered session.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyUsername, []byte(sess.Username)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyAccessToken, []byte(sess.AccessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, keyExpiresAt, []byte(sess.ExpiresAt.UTC().Format(time.RFC3339)))
	})
}

// Load returns the remembered session. A missing, incomplete or locally
// expired session reports ok=false.
func (s *Store) Load(ctx context.Context) (*Session, bool, error) {
	values, err := metadata.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return nil, false, err
	}

	token := string(values[keyAccessToken])
	if token == "" {
		return nil, false, nil
	}

	sess := &Session{Username: string(values[keyUsername]), AccessToken: token}
	if raw := string(values[keyExpiresAt]); raw != "" {
		exp, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, false, fmt.Errorf("parse expires_at: %w", err)
		}
		if !exp.After(s.now()) {
			return nil, false, nil
		}
		sess.ExpiresAt = exp
	}
	return sess, true, nil
}

// Clear forgets the remembered session.
func (s *Store) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Clear(ctx)
}
