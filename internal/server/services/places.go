package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/repomanager"
)

// PlaceService fronts the place directory so places can be added at runtime.
type PlaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPlaceService(db *sql.DB, m repomanager.RepositoryManager) *PlaceService {
	return &PlaceService{db: db, repomanager: m}
}

func (s *PlaceService) AddPlace(ctx context.Context, name, description string, lat, lon float64) (*models.Place, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: place name is required", common.ErrValidation)
	case math.IsNaN(lat) || lat < -90 || lat > 90:
		return nil, fmt.Errorf("%w: latitude must be between -90 and 90", common.ErrValidation)
	case math.IsNaN(lon) || lon < -180 || lon > 180:
		return nil, fmt.Errorf("%w: longitude must be between -180 and 180", common.ErrValidation)
	}

	var place *models.Place
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		place, err = s.repomanager.Places(tx).Create(ctx, &models.Place{
			Name:        name,
			Description: description,
			Latitude:    lat,
			Longitude:   lon,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return place, nil
}

func (s *PlaceService) GetPlace(ctx context.Context, id int64) (*models.Place, bool, error) {
	return optional(s.repomanager.Places(s.db).GetByID(ctx, id))
}

func (s *PlaceService) ListPlaces(ctx context.Context) ([]*models.Place, error) {
	return s.repomanager.Places(s.db).List(ctx)
}
