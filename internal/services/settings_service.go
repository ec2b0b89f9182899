package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/models"
)

// settingsService handles user settings.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// GetOrCreateSettings returns the user's settings, creating a row with the
// default theme on first access.
func (s *settingsService) GetOrCreateSettings(userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings = models.UserSettings{UserID: userID, Theme: models.ThemeSystem}
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings sets the theme preference.
func (s *settingsService) UpdateSettings(userID string, theme models.Theme) (*models.UserSettings, error) {
	switch theme {
	case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "theme must be one of light, dark, system")
	}

	settings, err := s.GetOrCreateSettings(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(settings).Update("theme", theme).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	settings.Theme = theme
	return settings, nil
}
