package models

import "time"

// User is a registered identity. Email is unique and doubles as the token
// subject. PasswordHash is a bcrypt hash; the raw password is never stored.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DefaultRole is assigned on registration when no role is given.
const DefaultRole = "USER"
