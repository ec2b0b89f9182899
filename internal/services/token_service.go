package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/middleware"
	"lifeweeks/internal/models"
)

// tokenService owns the refresh-token revocation list.
type tokenService struct {
	db          *gorm.DB
	userService UserServicer
}

// NewTokenService creates a new TokenServicer.
func NewTokenService(db *gorm.DB, userService UserServicer) TokenServicer {
	return &tokenService{db: db, userService: userService}
}

// Refresh validates a refresh token, rejects revoked ones, and issues a
// fresh access token for the token's user.
func (s *tokenService) Refresh(refreshToken string) (string, *models.User, error) {
	claims, err := middleware.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", nil, err
	}

	revoked, err := s.IsRevoked(refreshToken)
	if err != nil {
		return "", nil, err
	}
	if revoked {
		return "", nil, apperrors.ErrTokenInvalid
	}

	user, err := s.userService.GetUserByID(claims.UserID)
	if err != nil {
		// The user behind a valid token may have been deactivated or
		// deleted; report it the same as a bad token.
		return "", nil, apperrors.ErrTokenInvalid
	}

	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return accessToken, user, nil
}

// Revoke adds a refresh token to the revocation list. Revoking an
// already-revoked or unknown token succeeds without revealing whether the
// token was known.
func (s *tokenService) Revoke(refreshToken string) error {
	claims, err := middleware.ValidateRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	record := &models.RevokedToken{
		TokenHash: middleware.HashToken(refreshToken),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.db.Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// IsRevoked reports whether a refresh token is on the revocation list.
func (s *tokenService) IsRevoked(refreshToken string) (bool, error) {
	var record models.RevokedToken
	err := s.db.Where("token_hash = ?", middleware.HashToken(refreshToken)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// isUniqueViolation detects a unique-constraint failure across the
// postgres and sqlite drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
