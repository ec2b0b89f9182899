package models

import "time"

// RevokedToken records a refresh token that has been logged out.
// Only the SHA-256 hash of the token is stored. ExpiresAt mirrors the
// token's own expiry so stale rows can be purged.
type RevokedToken struct {
	Base
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
