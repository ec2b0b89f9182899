package models

// Tag is a free-form label shared across all users. Names are unique
// system-wide; a tag is never owned by a single user. "A user's tags"
// is the distinct set reachable through that user's events.
type Tag struct {
	Base
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`

	// Relationships
	Events []Event `gorm:"many2many:event_tags" json:"events,omitempty"`
}
