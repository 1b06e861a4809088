package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "username", "email", "password_hash", "description", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, description\) VALUES .* RETURNING id, created_at`).
		WithArgs("alice", "alice@example.com", "$2a$10$hash", "hi").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now))

	got, err := repo.Create(context.Background(), &models.User{
		UserName: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$hash", Description: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "a", Email: "a@x", PasswordHash: "h"})
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "a", Email: "a@x", PasswordHash: "h"})
	require.ErrorContains(t, err, "db error: db down")
	assert.NotErrorIs(t, err, common.ErrConflict)
}

func TestLookups(t *testing.T) {
	created := time.Now()

	tests := []struct {
		name   string
		where  string
		arg    any
		lookup func(r *PostgresRepository) (*models.User, error)
	}{
		{"by id", `WHERE id = \$1`, int64(7), func(r *PostgresRepository) (*models.User, error) {
			return r.GetByID(context.Background(), 7)
		}},
		{"by email", `WHERE email = \$1`, "alice@example.com", func(r *PostgresRepository) (*models.User, error) {
			return r.GetByEmail(context.Background(), "alice@example.com")
		}},
		{"by username", `WHERE username = \$1`, "alice", func(r *PostgresRepository) (*models.User, error) {
			return r.GetByUserName(context.Background(), "alice")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name+" found", func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectQuery(`SELECT id, username, email, password_hash, description, created_at FROM users ` + tt.where).
				WithArgs(tt.arg).
				WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(7), "alice", "alice@example.com", "h", "d", created))

			u, err := tt.lookup(repo)
			require.NoError(t, err)
			assert.Equal(t, &models.User{ID: 7, UserName: "alice", Email: "alice@example.com", PasswordHash: "h", Description: "d", CreatedAt: created}, u)
		})

		t.Run(tt.name+" missing", func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectQuery(tt.where).WithArgs(tt.arg).WillReturnError(sql.ErrNoRows)

			_, err := tt.lookup(repo)
			require.ErrorIs(t, err, common.ErrNotFound)
		})

		t.Run(tt.name+" db error", func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectQuery(tt.where).WithArgs(tt.arg).WillReturnError(errors.New("db err"))

			_, err := tt.lookup(repo)
			require.ErrorContains(t, err, "db error: db err")
		})
	}
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "a", "a@x", "h1", "", now).
			AddRow(int64(2), "b", "b@x", "h2", "", now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].UserName)
}

func TestUpdatesAndDelete(t *testing.T) {
	t.Run("password hash", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(`UPDATE users SET password_hash = \$2 WHERE id = \$1`).
			WithArgs(int64(3), "new-hash").
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.UpdatePasswordHash(context.Background(), 3, "new-hash"))
	})

	t.Run("description of missing user", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(`UPDATE users SET description`).
			WithArgs(int64(3), "bio").
			WillReturnResult(sqlmock.NewResult(0, 0))
		require.ErrorIs(t, repo.UpdateDescription(context.Background(), 3, "bio"), common.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Delete(context.Background(), 3))
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(`DELETE FROM users`).WillReturnError(errors.New("locked"))
		require.ErrorContains(t, repo.Delete(context.Background(), 3), "db error: locked")
	})
}
