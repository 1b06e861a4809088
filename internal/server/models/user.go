// Package models defines server-side records persisted in the database.
// Values are plain data; mutation happens only through service operations.
package models

import "time"

// User is an identity record. PasswordHash always holds a bcrypt hash.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	Description  string
	CreatedAt    time.Time
}
