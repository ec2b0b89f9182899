package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/services"
)

// ProfileHandler handles profile-related requests
type ProfileHandler struct {
	profileService services.ProfileServicer
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService services.ProfileServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	BirthDate *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// GetUserProfiles lists the caller's profile
// @Summary     List profiles
// @Description List the caller's profile (at most one record)
// @Tags        profiles
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.UserProfile "Profiles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profiles [get]
func (h *ProfileHandler) GetUserProfiles(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profiles, err := h.profileService.ListProfiles(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// GetMyProfile returns the caller's profile, creating it if absent
// @Summary     Get own profile
// @Description Get the caller's profile, creating an empty one on first access
// @Tags        profiles
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserProfile "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetOrCreateProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfileByID retrieves an owned profile by ID
// @Summary     Get a profile
// @Description Get one of the caller's profiles by ID
// @Tags        profiles
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Profile ID"
// @Success     200 {object} models.UserProfile "Profile"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /profiles/{id} [get]
func (h *ProfileHandler) GetProfileByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfileByID(userID, profileID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates an owned profile
// @Summary     Update a profile
// @Description Set the birth date on one of the caller's profiles
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Profile ID"
// @Param       request body UpdateProfileRequest true "Fields to update"
// @Success     200 {object} models.UserProfile "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	birthDate, err := parseOptionalDate(req.BirthDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(userID, profileID, birthDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
