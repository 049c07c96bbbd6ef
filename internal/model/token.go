package model

import "time"

// RefreshToken stores the SHA-256 hash of an issued refresh token so
// the raw token never touches the database. Revoked rows stay around
// until their expiry passes.
type RefreshToken struct {
	ID        uint64    // refresh_tokens.id
	UserID    uint64    // refresh_tokens.user_id
	TokenHash string    // refresh_tokens.token_hash (hex SHA-256)
	ExpiresAt time.Time // refresh_tokens.expires_at
	Revoked   bool      // refresh_tokens.revoked
	CreatedAt time.Time // refresh_tokens.created_at
}
