package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"lifeweeks/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func testUser() *models.User {
	return &models.User{
		Base:     models.Base{ID: "019098aa-1111-7000-8000-000000000001"},
		Username: "tester",
	}
}

// signClaims signs arbitrary claims with the configured key, letting tests
// mint expired or mistyped tokens.
func signClaims(t *testing.T, claims *JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(getJWTKey())
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func setupAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	authed := r.Group("/", mw)
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})
	authed.POST("/mutate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})
	return r
}

func TestAuthMiddlewareBearer(t *testing.T) {
	user := testUser()
	access, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	expired := signClaims(t, newClaims(user, "access", -time.Hour))

	tests := []struct {
		name          string
		header        string
		wantStatus    int
		wantErrorCode string
	}{
		{
			name:       "valid_access_token",
			header:     "Bearer " + access,
			wantStatus: http.StatusOK,
		},
		{
			name:          "malformed_header",
			header:        "Token " + access,
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "TOKEN_INVALID",
		},
		{
			name:          "garbage_token",
			header:        "Bearer not-a-jwt",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "TOKEN_INVALID",
		},
		{
			name:          "refresh_token_rejected_as_access",
			header:        "Bearer " + refresh,
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "TOKEN_INVALID",
		},
		{
			name:          "expired_token",
			header:        "Bearer " + expired,
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "TOKEN_EXPIRED",
		},
		{
			name:          "no_credentials",
			header:        "",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "UNAUTHORIZED",
		},
	}

	r := setupAuthRouter(AuthMiddleware())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantErrorCode != "" {
				body := parseBody(t, rec)
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatalf("expected error object, got %v", body)
				}
				if errObj["code"] != tt.wantErrorCode {
					t.Errorf("expected error code %s, got %v", tt.wantErrorCode, errObj["code"])
				}
			}
		})
	}

	t.Run("bearer_mutation_skips_csrf", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mutate", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 without any CSRF token, got %d", rec.Code)
		}
	})
}

func TestAuthMiddlewareCookie(t *testing.T) {
	user := testUser()
	access, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	csrfToken, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("failed to generate CSRF token: %v", err)
	}

	tests := []struct {
		name          string
		method        string
		path          string
		accessCookie  string
		csrfCookie    string
		csrfHeader    string
		wantStatus    int
		wantErrorCode string
	}{
		{
			name:         "safe_method_no_csrf_needed",
			method:       http.MethodGet,
			path:         "/me",
			accessCookie: access,
			wantStatus:   http.StatusOK,
		},
		{
			name:          "mutation_without_csrf",
			method:        http.MethodPost,
			path:          "/mutate",
			accessCookie:  access,
			wantStatus:    http.StatusForbidden,
			wantErrorCode: "CSRF_FAILED",
		},
		{
			name:          "mutation_with_header_but_no_cookie",
			method:        http.MethodPost,
			path:          "/mutate",
			accessCookie:  access,
			csrfHeader:    csrfToken,
			wantStatus:    http.StatusForbidden,
			wantErrorCode: "CSRF_FAILED",
		},
		{
			name:          "mutation_with_mismatched_tokens",
			method:        http.MethodPost,
			path:          "/mutate",
			accessCookie:  access,
			csrfCookie:    csrfToken,
			csrfHeader:    "deadbeef",
			wantStatus:    http.StatusForbidden,
			wantErrorCode: "CSRF_FAILED",
		},
		{
			name:         "mutation_with_matching_tokens",
			method:       http.MethodPost,
			path:         "/mutate",
			accessCookie: access,
			csrfCookie:   csrfToken,
			csrfHeader:   csrfToken,
			wantStatus:   http.StatusOK,
		},
		{
			name:          "invalid_cookie_token",
			method:        http.MethodGet,
			path:          "/me",
			accessCookie:  "not-a-jwt",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "TOKEN_INVALID",
		},
	}

	r := setupAuthRouter(AuthMiddleware())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.accessCookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.accessCookie})
			}
			if tt.csrfCookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFTokenCookie, Value: tt.csrfCookie})
			}
			if tt.csrfHeader != "" {
				req.Header.Set(CSRFHeader, tt.csrfHeader)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantErrorCode != "" {
				body := parseBody(t, rec)
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatalf("expected error object, got %v", body)
				}
				if errObj["code"] != tt.wantErrorCode {
					t.Errorf("expected error code %s, got %v", tt.wantErrorCode, errObj["code"])
				}
			}
		})
	}

	t.Run("no_csrf_variant_allows_cookie_mutation", func(t *testing.T) {
		r := setupAuthRouter(AuthMiddlewareNoCSRF())
		req := httptest.NewRequest(http.MethodPost, "/mutate", http.NoBody)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: access})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 without CSRF enforcement, got %d", rec.Code)
		}
	})
}

func TestNewCSRFToken(t *testing.T) {
	first, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	second, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if len(first) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(first))
	}
	if first == second {
		t.Error("expected tokens to be unique")
	}
}
