package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/middleware"
	"lifeweeks/internal/models"
	"lifeweeks/internal/services"
)

// birthDateLayout is the wire format for birth dates.
const birthDateLayout = "2006-01-02"

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService  services.UserServicer
	tokenService services.TokenServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, tokenService services.TokenServicer) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents a partial update of the current user.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	BirthDate *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// ChangePasswordRequest represents the change-password payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ProfileResponse represents a user profile in the response
type ProfileResponse struct {
	ID        string  `json:"id"`
	BirthDate *string `json:"birth_date"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}

// userJSON serializes a user (and their profile, when loaded) for responses.
// Raw tokens never appear in response bodies; they travel in cookies only.
func userJSON(user *models.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if user.Profile != nil {
		var birthDate *string
		if user.Profile.BirthDate != nil {
			s := user.Profile.BirthDate.Format(birthDateLayout)
			birthDate = &s
		}
		resp.Profile = &ProfileResponse{ID: user.Profile.ID, BirthDate: birthDate}
	}
	return resp
}

// parseBirthDate parses an optional YYYY-MM-DD string.
func parseBirthDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "birth_date must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

// parseOptionalDate parses a nil-able YYYY-MM-DD string.
func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	return parseBirthDate(*value)
}

// issueSession generates a token pair for the user and sets both auth cookies.
func issueSession(c *gin.Context, user *models.User) error {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	middleware.SetAuthCookies(c, accessToken, refreshToken)
	return nil
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with username and password; sets auth cookies
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} UserResponse "User registered, session cookies set"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate username"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.Register(services.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birthDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := issueSession(c, user); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    userJSON(user),
		"message": "Registration successful",
	})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user; sets access and refresh token cookies
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} UserResponse "User authenticated, session cookies set"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetUserByUsername(req.Username)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if !h.userService.VerifyPassword(user, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if err := issueSession(c, user); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userJSON(user),
		"message": "Login successful",
	})
}

// Refresh rotates the access token cookie
// @Summary     Refresh access token
// @Description Issue a new access token from the refresh token cookie
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]string "Access cookie rotated"
// @Failure     401 {object} ErrorResponse "Invalid, expired, or revoked refresh token"
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrTokenInvalid, "Refresh token cookie not set"))
		return
	}

	accessToken, _, err := h.tokenService.Refresh(refreshToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	middleware.SetAccessCookie(c, accessToken)
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed"})
}

// Logout revokes the refresh token and clears both auth cookies
// @Summary     Logout user
// @Description Revoke the refresh token and clear auth cookies
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	// Best-effort revoke: the cookies are cleared even when the refresh
	// token is already missing, malformed, or revoked.
	if refreshToken, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refreshToken != "" {
		_ = h.tokenService.Revoke(refreshToken)
	}

	middleware.ClearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out"})
}

// GetCSRFToken issues a CSRF token for the double-submit scheme
// @Summary     Get a CSRF token
// @Description Issue a CSRF token and set the csrf_token cookie
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]string "CSRF token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/csrf [get]
func (h *AuthHandler) GetCSRFToken(c *gin.Context) {
	token, err := middleware.NewCSRFToken()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	middleware.SetCSRFCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}

// GetCurrentUser returns the authenticated user with their profile
// @Summary     Get current user
// @Description Get the authenticated user and profile, creating the profile if absent
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "Current user"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/user [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserWithProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// UpdateCurrentUser partially updates the authenticated user and profile
// @Summary     Update current user
// @Description Partially update name, email, or birth date of the current user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/user [put]
func (h *AuthHandler) UpdateCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.UserPatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		patch.BirthDate = birthDate
	}

	user, err := h.userService.UpdateUser(userID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// ChangePassword changes the authenticated user's password
// @Summary     Change password
// @Description Change the current user's password after verifying the old one
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Old and new password"
// @Success     200 {object} map[string]string "Password changed"
// @Failure     400 {object} ErrorResponse "Old password mismatch or weak password"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
