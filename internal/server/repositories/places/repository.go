package places

import (
	"context"

	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
)

// Repository is the place directory the visit ledger resolves places against.
type Repository interface {
	Create(ctx context.Context, place *models.Place) (*models.Place, error)
	GetByID(ctx context.Context, id int64) (*models.Place, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*models.Place, error)
}
