package models

import "time"

// UserProfile is the one-to-one extension of a user.
// Created at registration, or lazily on first fetch for accounts
// that predate the profile table.
type UserProfile struct {
	Base
	UserID    string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date"`
}
