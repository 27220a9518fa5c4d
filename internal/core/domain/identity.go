package domain

import (
	"strings"
	"time"
)

// Identity models a registered account. The record is owned by the identity
// store; the core only reads it and asks the store to create new ones.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Occupation   string    `json:"occupation,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the only payload handed back to a caller after login,
// registration or a profile refresh.
type Profile struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// NormalizeKey folds an email or username into the form used for uniqueness
// checks and lookups.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
