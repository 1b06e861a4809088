package models

import "time"

// Place is owned by the place directory; visits reference it by ID only.
type Place struct {
	ID          int64
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time
}
