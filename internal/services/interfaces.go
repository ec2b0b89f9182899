package services

import (
	"time"

	"lifeweeks/internal/models"
)

// RegisterInput holds the fields accepted at registration.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	BirthDate *time.Time
}

// UserPatch holds the optional fields of a partial user update. Nil fields
// are left untouched.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	BirthDate *time.Time
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(input RegisterInput) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserWithProfile(id string) (*models.User, error)
	UpdateUser(userID string, patch UserPatch) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	ChangePassword(userID, oldPassword, newPassword string) error
}

// TokenServicer defines the contract for refresh-token lifecycle logic.
// Token issuance and validation themselves are stateless JWT operations in
// the middleware package; this service owns the revocation list.
type TokenServicer interface {
	Refresh(refreshToken string) (accessToken string, user *models.User, err error)
	Revoke(refreshToken string) error
	IsRevoked(refreshToken string) (bool, error)
}

// ProfileServicer defines the contract for profile-related business logic.
type ProfileServicer interface {
	GetOrCreateProfile(userID string) (*models.UserProfile, error)
	GetProfileByID(userID, profileID string) (*models.UserProfile, error)
	ListProfiles(userID string) ([]models.UserProfile, error)
	UpdateProfile(userID, profileID string, birthDate *time.Time) (*models.UserProfile, error)
}

// SettingsServicer defines the contract for user settings.
type SettingsServicer interface {
	GetOrCreateSettings(userID string) (*models.UserSettings, error)
	UpdateSettings(userID string, theme models.Theme) (*models.UserSettings, error)
}

// TagServicer defines the contract for tag-related business logic. Tags are
// global records; every query here scopes visibility through the caller's
// events.
type TagServicer interface {
	GetOrCreateTag(name string) (*models.Tag, error)
	ListUserTags(userID, search string) ([]models.Tag, error)
	GetTagByID(userID, tagID string) (*models.Tag, error)
	DetachTag(userID, tagID string) error
}

// TagInput names a tag to associate with an event, creating it on first use.
type TagInput struct {
	Name string
}

// EventFilter holds optional filter parameters for listing events.
type EventFilter struct {
	WeekIndex *int
	DayOfWeek *int
	Search    string
	Ordering  string
}

// EventInput holds the fields of a new event.
type EventInput struct {
	WeekIndex   int
	DayOfWeek   int
	Title       string
	Description string
	Icon        string
	Color       *string
	Tags        []TagInput
}

// EventPatch holds the optional fields of a partial event update. Nil fields
// are left untouched; a non-nil Tags slice replaces the entire tag set.
type EventPatch struct {
	WeekIndex   *int
	DayOfWeek   *int
	Title       *string
	Description *string
	Icon        *string
	Color       *string
	Tags        *[]TagInput
}

// EventServicer defines the contract for event-related business logic.
type EventServicer interface {
	CreateEvent(userID string, input EventInput) (*models.Event, error)
	ListEvents(userID string, filter EventFilter) ([]models.Event, error)
	GetEventByID(userID, eventID string) (*models.Event, error)
	UpdateEvent(userID, eventID string, patch EventPatch) (*models.Event, error)
	DeleteEvent(userID, eventID string) error
	WeekRange(userID string, startWeek, endWeek *int) ([]models.Event, error)
}

// DashboardSummary is the aggregate returned by the dashboard endpoint.
type DashboardSummary struct {
	User         *models.User
	RecentEvents []models.Event
	Tags         []models.Tag
	TotalEvents  int64
	TotalTags    int64
}

// DashboardServicer composes a read-only summary of a user's data.
type DashboardServicer interface {
	Summary(userID string) (*DashboardSummary, error)
}
