// Package places provides the PostgreSQL-backed place directory.
package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, place *models.Place) (*models.Place, error) {
	query := `
		INSERT INTO places (name, description, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, place.Name, place.Description, place.Latitude, place.Longitude).
		Scan(&place.ID, &place.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return place, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Place, error) {
	query := `SELECT id, name, description, latitude, longitude, created_at FROM places WHERE id = $1`

	p := &models.Place{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Place, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, latitude, longitude, created_at FROM places ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select places: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Place, 0)
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
