package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeweeks/internal/config"
)

// Auth cookie names.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	CSRFTokenCookie    = "csrf_token"
)

// refreshCookiePath restricts the refresh token to the auth endpoints so
// it is not sent with every API request.
const refreshCookiePath = "/api/v1/auth"

// SetAuthCookies sets the access and refresh token cookies on the response.
// Both are HTTP-only with SameSite=Lax; Max-Age matches each token's TTL.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	cfg := config.Get()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken,
		int(cfg.AccessTokenTTL.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken,
		int(cfg.RefreshTokenTTL.Seconds()), refreshCookiePath, cfg.CookieDomain, cfg.CookieSecure, true)
}

// SetAccessCookie rotates only the access token cookie (used by refresh).
func SetAccessCookie(c *gin.Context, accessToken string) {
	cfg := config.Get()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken,
		int(cfg.AccessTokenTTL.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
}

// SetCSRFCookie sets the CSRF token cookie. Not HTTP-only: the client must
// read it back to echo the token in the X-CSRF-Token header.
func SetCSRFCookie(c *gin.Context, token string) {
	cfg := config.Get()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFTokenCookie, token, 0, "/", cfg.CookieDomain, cfg.CookieSecure, false)
}

// ClearAuthCookies expires both auth cookies regardless of their validity.
func ClearAuthCookies(c *gin.Context) {
	cfg := config.Get()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, refreshCookiePath, cfg.CookieDomain, cfg.CookieSecure, true)
}
