package models

// User represents the user model in the database
type User struct {
	Base
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Email     string `json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Profile  *UserProfile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Settings *UserSettings `gorm:"foreignKey:UserID" json:"settings,omitempty"`
	Events   []Event       `gorm:"foreignKey:UserID" json:"events,omitempty"`
}
