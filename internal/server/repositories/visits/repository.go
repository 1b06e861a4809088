package visits

import (
	"context"

	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
)

// Repository is the ledger of visit facts. Listings are ordered by
// creation time, most recent first.
type Repository interface {
	Create(ctx context.Context, visit *models.Visit) (*models.Visit, error)
	GetByID(ctx context.Context, id int64) (*models.Visit, error)
	Delete(ctx context.Context, id int64) error
	UpdateNotes(ctx context.Context, id int64, comment *string, rating *int) (*models.Visit, error)
	Exists(ctx context.Context, userID, placeID int64) (bool, error)
	ListAll(ctx context.Context) ([]*models.Visit, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Visit, error)
	ListByPlace(ctx context.Context, placeID int64) ([]*models.Visit, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Visit, error)
	CountForPlace(ctx context.Context, placeID int64) (int64, error)
	AverageRatingForPlace(ctx context.Context, placeID int64) (float64, error)
}
