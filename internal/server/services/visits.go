package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/dbx"
	"github.com/dmitrijs2005/visitkeeper/internal/server/config"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/dmitrijs2005/visitkeeper/internal/server/repositories/repomanager"
)

// RecordResult is the outcome of RecordVisit. AlreadyVisited is set when the
// user had visited the place before; the new visit is stored regardless.
type RecordResult struct {
	Visit          *models.Visit
	AlreadyVisited bool
}

// VisitService is the visit ledger. Aggregates are recomputed from stored
// visits on every call.
type VisitService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	maxCommentLength int
	ratingMin        int
	ratingMax        int
}

func NewVisitService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *VisitService {
	return &VisitService{
		db:               db,
		repomanager:      m,
		maxCommentLength: cfg.MaxCommentLength,
		ratingMin:        cfg.RatingMin,
		ratingMax:        cfg.RatingMax,
	}
}

// RecordVisit stores a new visit of userID to placeID. Both must exist. An
// empty comment is stored as no comment.
func (s *VisitService) RecordVisit(ctx context.Context, userID, placeID int64, comment *string, rating *int) (*RecordResult, error) {
	comment, err := s.checkNotes(comment, rating)
	if err != nil {
		return nil, err
	}

	res := &RecordResult{}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetByID(ctx, userID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("%w: unknown user %d", common.ErrValidation, userID)
			}
			return err
		}

		ok, err := s.repomanager.Places(tx).Exists(ctx, placeID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown place %d", common.ErrValidation, placeID)
		}

		repo := s.repomanager.Visits(tx)
		if res.AlreadyVisited, err = repo.Exists(ctx, userID, placeID); err != nil {
			return err
		}

		res.Visit, err = repo.Create(ctx, &models.Visit{
			UserID:  userID,
			PlaceID: placeID,
			Comment: comment,
			Rating:  rating,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// checkNotes validates a comment and rating and normalizes an empty
// comment to nil.
func (s *VisitService) checkNotes(comment *string, rating *int) (*string, error) {
	if rating != nil && (*rating < s.ratingMin || *rating > s.ratingMax) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", common.ErrValidation, s.ratingMin, s.ratingMax)
	}
	if comment != nil && *comment == "" {
		comment = nil
	}
	if comment != nil && utf8.RuneCountInString(*comment) > s.maxCommentLength {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", common.ErrValidation, s.maxCommentLength)
	}
	return comment, nil
}

func (s *VisitService) ListAll(ctx context.Context) ([]*models.Visit, error) {
	return s.repomanager.Visits(s.db).ListAll(ctx)
}

func (s *VisitService) ListByUser(ctx context.Context, userID int64) ([]*models.Visit, error) {
	return s.repomanager.Visits(s.db).ListByUser(ctx, userID)
}

func (s *VisitService) ListByPlace(ctx context.Context, placeID int64) ([]*models.Visit, error) {
	return s.repomanager.Visits(s.db).ListByPlace(ctx, placeID)
}

// ListRecent returns at most limit of the newest visits.
func (s *VisitService) ListRecent(ctx context.Context, limit int) ([]*models.Visit, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", common.ErrValidation)
	}
	return s.repomanager.Visits(s.db).ListRecent(ctx, limit)
}

func (s *VisitService) FindByID(ctx context.Context, id int64) (*models.Visit, bool, error) {
	return optional(s.repomanager.Visits(s.db).GetByID(ctx, id))
}

// DeleteVisit hard-deletes a visit owned by actorID.
func (s *VisitService) DeleteVisit(ctx context.Context, actorID, visitID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Visits(tx)

		v, err := repo.GetByID(ctx, visitID)
		if err != nil {
			return notFoundf(err, "visit %d", visitID)
		}
		if v.UserID != actorID {
			return fmt.Errorf("%w: visit %d belongs to another user", common.ErrAuthorization, visitID)
		}

		if err := repo.Delete(ctx, visitID); err != nil {
			return notFoundf(err, "visit %d", visitID)
		}
		return nil
	})
}

// UpdateVisit replaces the comment and rating of a visit owned by actorID.
// The visit's user, place and creation time never change; nil clears a field.
func (s *VisitService) UpdateVisit(ctx context.Context, actorID, visitID int64, comment *string, rating *int) (*models.Visit, error) {
	comment, err := s.checkNotes(comment, rating)
	if err != nil {
		return nil, err
	}

	var updated *models.Visit
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Visits(tx)

		v, err := repo.GetByID(ctx, visitID)
		if err != nil {
			return notFoundf(err, "visit %d", visitID)
		}
		if v.UserID != actorID {
			return fmt.Errorf("%w: visit %d belongs to another user", common.ErrAuthorization, visitID)
		}

		updated, err = repo.UpdateNotes(ctx, visitID, comment, rating)
		if err != nil {
			return notFoundf(err, "visit %d", visitID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *VisitService) HasVisited(ctx context.Context, userID, placeID int64) (bool, error) {
	return s.repomanager.Visits(s.db).Exists(ctx, userID, placeID)
}

func (s *VisitService) CountForPlace(ctx context.Context, placeID int64) (int64, error) {
	return s.repomanager.Visits(s.db).CountForPlace(ctx, placeID)
}

// AverageRatingForPlace is the mean of non-null ratings, 0 when there are none.
func (s *VisitService) AverageRatingForPlace(ctx context.Context, placeID int64) (float64, error) {
	return s.repomanager.Visits(s.db).AverageRatingForPlace(ctx, placeID)
}

func (s *VisitService) PlaceStats(ctx context.Context, placeID int64) (*models.PlaceStats, error) {
	count, err := s.CountForPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	avg, err := s.AverageRatingForPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &models.PlaceStats{PlaceID: placeID, VisitCount: count, AverageRating: avg}, nil
}
