package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"lifeweeks/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	username := fmt.Sprintf("user%d", nextID())
	return CreateTestUserWithUsername(t, db, username)
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    username + "@test.com",
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProfile creates a profile for the given user.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID string) *models.UserProfile {
	t.Helper()

	birthDate := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	profile := &models.UserProfile{
		UserID:    userID,
		BirthDate: &birthDate,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestTag creates a tag with a unique name.
func CreateTestTag(t *testing.T, db *gorm.DB) *models.Tag {
	t.Helper()
	return CreateTestTagWithName(t, db, fmt.Sprintf("tag%d", nextID()))
}

// CreateTestTagWithName creates a tag with the given name.
func CreateTestTagWithName(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestEvent creates an event at the given grid position.
func CreateTestEvent(t *testing.T, db *gorm.DB, userID string, weekIndex, dayOfWeek int) *models.Event {
	t.Helper()

	event := &models.Event{
		UserID:    userID,
		WeekIndex: weekIndex,
		DayOfWeek: dayOfWeek,
		Title:     fmt.Sprintf("Test Event %d", nextID()),
		Icon:      "star",
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateTestEventWithTags creates an event linked to the given tags.
func CreateTestEventWithTags(t *testing.T, db *gorm.DB, userID string, weekIndex, dayOfWeek int, tags []models.Tag) *models.Event {
	t.Helper()

	event := &models.Event{
		UserID:    userID,
		WeekIndex: weekIndex,
		DayOfWeek: dayOfWeek,
		Title:     fmt.Sprintf("Test Event %d", nextID()),
		Icon:      "star",
		Tags:      tags,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}
