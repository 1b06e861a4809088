// Package sessions stores the server-side half of logins. Two backends are
// available: PostgreSQL (default) and Redis.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
)

// Repository persists sessions. Find returns common.ErrNotFound for unknown
// ids; Delete of an unknown id is not an error.
type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
