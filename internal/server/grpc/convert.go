package grpc

import (
	"github.com/dmitrijs2005/visitkeeper/internal/api"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
)

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Username:    u.UserName,
		Email:       u.Email,
		Description: u.Description,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIPlace(p *models.Place) api.Place {
	return api.Place{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		CreatedAt:   p.CreatedAt,
	}
}

func toAPIVisit(v *models.Visit) api.Visit {
	return api.Visit{
		ID:        v.ID,
		UserID:    v.UserID,
		PlaceID:   v.PlaceID,
		CreatedAt: v.CreatedAt,
		Comment:   v.Comment,
		Rating:    v.Rating,
	}
}

func toAPIVisits(vs []*models.Visit) []api.Visit {
	out := make([]api.Visit, 0, len(vs))
	for _, v := range vs {
		out = append(out, toAPIVisit(v))
	}
	return out
}
