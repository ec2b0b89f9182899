package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"lifeweeks/internal/config"
	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func newClaims(user *models.User, tokenType string, ttl time.Duration) *JWTClaims {
	now := time.Now()
	return &JWTClaims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "lifeweeks-api",
			Subject:   user.ID,
		},
	}
}

// GenerateAccessToken generates a short-lived JWT access token for a user.
func GenerateAccessToken(user *models.User) (string, error) {
	claims := newClaims(user, "access", config.Get().AccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// GenerateRefreshToken generates a long-lived JWT refresh token for a user.
func GenerateRefreshToken(user *models.User) (string, error) {
	claims := newClaims(user, "refresh", config.Get().RefreshTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// parseToken parses and validates a JWT of the expected token type.
func parseToken(tokenString, tokenType string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.Wrap(apperrors.ErrTokenInvalid, err)
	}
	if !token.Valid || claims.TokenType != tokenType {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ValidateAccessToken parses and validates an access token JWT.
func ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	return parseToken(tokenString, "access")
}

// ValidateRefreshToken parses and validates a refresh token JWT.
// Returns the claims if valid, or an error if the token is invalid,
// expired, or not a refresh token.
func ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return parseToken(tokenString, "refresh")
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// isSafeMethod reports whether the HTTP method cannot change server state.
// Cookie-authenticated requests with any other method require a CSRF token.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// AuthMiddleware authenticates a request from either an Authorization
// bearer header or the access token cookie, in that order.
//
// Header-based requests skip the CSRF check: a cross-site attacker cannot
// set custom headers. Cookie-based requests with a state-changing method
// go through the CSRF guard before the user is resolved.
func AuthMiddleware() gin.HandlerFunc {
	return authenticate(true)
}

// AuthMiddlewareNoCSRF authenticates like AuthMiddleware but never runs
// the CSRF guard. Used only for logout, which revokes the caller's own
// refresh token and clears their cookies; forging it gains an attacker
// nothing.
func AuthMiddlewareNoCSRF() gin.HandlerFunc {
	return authenticate(false)
}

func authenticate(enforceCSRF bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try the Authorization header first.
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				abortWithAppError(c, apperrors.WithMessage(apperrors.ErrTokenInvalid, "Invalid authorization header format"))
				return
			}
			claims, err := ValidateAccessToken(parts[1])
			if err != nil {
				abortWithAppError(c, err)
				return
			}
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUsername, claims.Username)
			c.Next()
			return
		}

		// Fall back to the access token cookie.
		tokenString, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenString == "" {
			abortWithAppError(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := ValidateAccessToken(tokenString)
		if err != nil {
			abortWithAppError(c, err)
			return
		}

		if enforceCSRF && !isSafeMethod(c.Request.Method) {
			if err := CheckCSRF(c); err != nil {
				abortWithAppError(c, err)
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// abortWithAppError writes an AppError response and stops the chain.
func abortWithAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.ErrInternalServer
	}
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
