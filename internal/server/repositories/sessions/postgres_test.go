package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Now().UTC()
	expires := created.Add(time.Hour)

	mock.ExpectQuery(`INSERT INTO sessions \(id, user_id, expires_at\)`).
		WithArgs("sid", int64(7), expires).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	s := &models.Session{ID: "sid", UserID: 7, ExpiresAt: expires}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, created, s.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs("sid", int64(7), sqlmock.AnyArg()).
		WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &models.Session{ID: "sid", UserID: 7, ExpiresAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestPostgresFind(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Now().UTC()
	expires := created.Add(time.Hour)

	mock.ExpectQuery(`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = \$1`).
		WithArgs("sid").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "expires_at"}).
			AddRow("sid", int64(7), created, expires))

	s, err := repo.Find(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, &models.Session{ID: "sid", UserID: 7, CreatedAt: created, ExpiresAt: expires}, s)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFind_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT .* FROM sessions`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgresDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs("sid").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "sid"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE FROM sessions`).WithArgs("sid").WillReturnError(errors.New("boom"))

	require.Error(t, repo.Delete(context.Background(), "sid"))
}
