package models

import "time"

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User is an account that can submit stories
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider"`
	GoogleID     string    `json:"-"`
	CreatedDate  time.Time `json:"created_date"`
}

// Principal identifies the caller of a user-level operation
type Principal struct {
	UserID string
	Name   string
	Email  string
}
