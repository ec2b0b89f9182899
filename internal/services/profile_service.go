package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/models"
)

// profileService handles profile-related business logic.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// GetOrCreateProfile returns the user's profile, creating an empty one on
// first access.
func (s *profileService) GetOrCreateProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profile = models.UserProfile{UserID: userID}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// GetProfileByID retrieves a profile by ID for a specific user.
func (s *profileService) GetProfileByID(userID, profileID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("id = ? AND user_id = ?", profileID, userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// ListProfiles returns the caller's profiles. A user has at most one, so
// this is a list of zero or one records.
func (s *profileService) ListProfiles(userID string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := s.db.Where("user_id = ?", userID).Find(&profiles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profiles, nil
}

// UpdateProfile sets the birth date on an owned profile.
func (s *profileService) UpdateProfile(userID, profileID string, birthDate *time.Time) (*models.UserProfile, error) {
	profile, err := s.GetProfileByID(userID, profileID)
	if err != nil {
		return nil, err
	}

	if birthDate != nil {
		if err := s.db.Model(profile).Update("birth_date", birthDate).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		profile.BirthDate = birthDate
	}

	return profile, nil
}
