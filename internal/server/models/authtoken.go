package models

import "time"

// AuthToken is the persisted record of an issued bearer token, kept for
// revocation bookkeeping. Tokens are immutable; revocation is deletion.
type AuthToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}
