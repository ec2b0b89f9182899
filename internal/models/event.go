package models

// Week grid bounds. The calendar covers 80 years of weeks.
const (
	MaxWeekIndex = 4160
	MaxDayOfWeek = 6
)

// Event is a point on a user's life calendar, addressed by week index
// and day of week. Events belong to exactly one user and carry an
// optional set of shared tags.
type Event struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;index:idx_events_user_week,priority:1" json:"user_id"`
	WeekIndex   int     `gorm:"not null;index:idx_events_user_week,priority:2" json:"week_index"`
	DayOfWeek   int     `gorm:"not null" json:"day_of_week"`
	Title       string  `gorm:"size:200;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Icon        string  `gorm:"size:50;not null" json:"icon"`
	Color       *string `gorm:"size:50" json:"color"`

	// Relationships
	Tags []Tag `gorm:"many2many:event_tags" json:"tags"`
}

// InBounds reports whether the event's grid position lies on the calendar.
func (e *Event) InBounds() bool {
	return e.WeekIndex >= 0 && e.WeekIndex <= MaxWeekIndex &&
		e.DayOfWeek >= 0 && e.DayOfWeek <= MaxDayOfWeek
}
