// Package visits provides the PostgreSQL-backed visit ledger.
package visits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

const (
	selectVisit = `SELECT id, user_id, place_id, created_at, comment, rating FROM visits`
	newestFirst = ` ORDER BY created_at DESC, id DESC`
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the visit. ID and CreatedAt are assigned by the database
// (server clock) and written back into visit. A user or place removed
// concurrently surfaces as common.ErrValidation.
func (r *PostgresRepository) Create(ctx context.Context, visit *models.Visit) (*models.Visit, error) {
	query := `
		INSERT INTO visits (user_id, place_id, comment, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		visit.UserID, visit.PlaceID, nullString(visit.Comment), nullInt(visit.Rating)).
		Scan(&visit.ID, &visit.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, fmt.Errorf("%w: unknown user or place", common.ErrValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return visit, nil
}

// UpdateNotes replaces comment and rating and returns the stored visit.
// user_id, place_id and created_at are left as they are.
func (r *PostgresRepository) UpdateNotes(ctx context.Context, id int64, comment *string, rating *int) (*models.Visit, error) {
	query := `
		UPDATE visits SET comment = $2, rating = $3
		WHERE id = $1
		RETURNING id, user_id, place_id, created_at, comment, rating
	`
	v, err := scanVisit(r.db.QueryRowContext(ctx, query, id, nullString(comment), nullInt(rating)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// GetByID returns common.ErrNotFound when no visit has the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Visit, error) {
	v, err := scanVisit(r.db.QueryRowContext(ctx, selectVisit+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// Delete hard-deletes a visit; common.ErrNotFound when nothing was removed.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, placeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM visits WHERE user_id = $1 AND place_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, placeID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Visit, error) {
	return r.list(ctx, selectVisit+newestFirst)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Visit, error) {
	return r.list(ctx, selectVisit+` WHERE user_id = $1`+newestFirst, userID)
}

func (r *PostgresRepository) ListByPlace(ctx context.Context, placeID int64) ([]*models.Visit, error) {
	return r.list(ctx, selectVisit+` WHERE place_id = $1`+newestFirst, placeID)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*models.Visit, error) {
	return r.list(ctx, selectVisit+newestFirst+` LIMIT $1`, limit)
}

func (r *PostgresRepository) CountForPlace(ctx context.Context, placeID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE place_id = $1`, placeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// AverageRatingForPlace is the mean of the non-null ratings, 0 when there are none.
func (r *PostgresRepository) AverageRatingForPlace(ctx context.Context, placeID int64) (float64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8
		FROM visits
		WHERE place_id = $1 AND rating IS NOT NULL
	`
	var avg float64
	if err := r.db.QueryRowContext(ctx, query, placeID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return avg, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Visit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select visits: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Visit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisit(s scanner) (*models.Visit, error) {
	var (
		v       models.Visit
		comment sql.NullString
		rating  sql.NullInt64
	)
	if err := s.Scan(&v.ID, &v.UserID, &v.PlaceID, &v.CreatedAt, &comment, &rating); err != nil {
		return nil, err
	}
	if comment.Valid {
		v.Comment = &comment.String
	}
	if rating.Valid {
		n := int(rating.Int64)
		v.Rating = &n
	}
	return &v, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
