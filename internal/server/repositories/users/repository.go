package users

import (
	"context"

	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
)

// Repository persists User records. Lookups return common.ErrNotFound on a
// miss; Create returns common.ErrConflict when username or email is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	Delete(ctx context.Context, id int64) error
}
