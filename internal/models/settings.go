package models

// Theme represents the UI theme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// UserSettings stores per-user preferences. Created lazily on first
// access; a user without a settings row behaves as if theme is "system".
type UserSettings struct {
	Base
	UserID string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Theme  Theme  `gorm:"size:10;not null;default:'system'" json:"theme"`
}
