package models

import "time"

// RefreshToken is the server-side record of an issued refresh token.
// Only the SHA-256 hash of the opaque token is stored.
type RefreshToken struct {
	ID        int64     `db:"id"`
	TokenHash string    `db:"token_hash"`
	ProfileID int64     `db:"profile_id"`
	ExpiresAt time.Time `db:"expires_at"`
	Revoked   bool      `db:"revoked"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the token is past its expiry at now
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
