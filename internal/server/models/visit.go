package models

import "time"

// Visit is an immutable fact: UserID, PlaceID and CreatedAt never change
// after insertion. Comment and Rating are optional.
type Visit struct {
	ID        int64
	UserID    int64
	PlaceID   int64
	CreatedAt time.Time
	Comment   *string
	Rating    *int
}

// Bounds enforced by the visits table. Configured limits must stay inside them.
const (
	RatingFloor      = 1
	RatingCeiling    = 5
	CommentMaxLength = 500
)

// PlaceStats is the aggregate view of the visits to one place.
type PlaceStats struct {
	PlaceID       int64
	VisitCount    int64
	AverageRating float64
}
