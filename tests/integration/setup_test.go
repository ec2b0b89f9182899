package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lifeweeks/internal/handlers"
	"lifeweeks/internal/logger"
	"lifeweeks/internal/middleware"
	"lifeweeks/internal/models"
	"lifeweeks/internal/services"
	"lifeweeks/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// session carries the cookies a browser client would hold between requests.
type session struct {
	cookies map[string]*http.Cookie
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.UserSettings{},
		&models.Tag{},
		&models.Event{},
		&models.RevokedToken{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db, userService)
	profileService := services.NewProfileService(db)
	settingsService := services.NewSettingsService(db)
	tagService := services.NewTagService(db)
	eventService := services.NewEventService(db, tagService)
	dashboardService := services.NewDashboardService(db, userService, tagService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	profileHandler := handlers.NewProfileHandler(profileService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	tagHandler := handlers.NewTagHandler(tagService)
	eventHandler := handlers.NewEventHandler(eventService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/csrf", authHandler.GetCSRFToken)
	auth.POST("/logout", middleware.AuthMiddlewareNoCSRF(), authHandler.Logout)

	authProtected := auth.Group("/")
	authProtected.Use(middleware.AuthMiddleware())
	authProtected.GET("/user", authHandler.GetCurrentUser)
	authProtected.PUT("/user", authHandler.UpdateCurrentUser)
	authProtected.POST("/change-password", authHandler.ChangePassword)

	// Protected resource routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

	profiles := protected.Group("/profiles")
	profiles.GET("", profileHandler.GetUserProfiles)
	profiles.GET("/me", profileHandler.GetMyProfile)
	profiles.GET("/:id", profileHandler.GetProfileByID)
	profiles.PUT("/:id", profileHandler.UpdateProfile)

	tags := protected.Group("/tags")
	tags.POST("", tagHandler.CreateTag)
	tags.GET("", tagHandler.GetUserTags)
	tags.GET("/:id", tagHandler.GetTagByID)
	tags.DELETE("/:id", tagHandler.DetachTag)

	events := protected.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.GetUserEvents)
	events.GET("/week_range", eventHandler.WeekRange)
	events.GET("/:id", eventHandler.GetEventByID)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	return &testApp{DB: db, Router: router}
}

func newSession() *session {
	return &session{cookies: make(map[string]*http.Cookie)}
}

// absorb merges Set-Cookie headers from a response into the session,
// dropping cookies the server expired.
func (s *session) absorb(rec *httptest.ResponseRecorder) {
	resp := rec.Result()
	for _, cookie := range resp.Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(s.cookies, cookie.Name)
			continue
		}
		s.cookies[cookie.Name] = cookie
	}
}

func (s *session) cookie(name string) string {
	if c, ok := s.cookies[name]; ok {
		return c.Value
	}
	return ""
}

// request makes a cookie-authenticated request. A nil session sends no
// cookies. csrf controls whether the session's CSRF token is echoed in the
// request header.
func (app *testApp) request(t *testing.T, sess *session, method, path, body string, csrf bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		for _, cookie := range sess.cookies {
			req.AddCookie(cookie)
		}
		if csrf {
			if token := sess.cookie("csrf_token"); token != "" {
				req.Header.Set("X-CSRF-Token", token)
			}
		}
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if sess != nil {
		sess.absorb(rec)
	}
	return rec
}

// bearerRequest makes a header-authenticated request with no cookies.
func (app *testApp) bearerRequest(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONList parses the response body into a slice.
func parseJSONList(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON list: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in body: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a user, absorbing the session cookies, and fetches
// a CSRF token so the session can make state-changing requests.
func (app *testApp) registerUser(t *testing.T, username, password string) (*session, string) {
	t.Helper()

	sess := newSession()
	body := fmt.Sprintf(`{"username":%q,"password":%q,"email":"%s@test.com"}`, username, password, username)
	rec := app.request(t, sess, "POST", "/api/v1/auth/register", body, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	userID := user["id"].(string)

	csrfRec := app.request(t, sess, "GET", "/api/v1/auth/csrf", "", false)
	if csrfRec.Code != http.StatusOK {
		t.Fatalf("csrf fetch failed: %d %s", csrfRec.Code, csrfRec.Body.String())
	}

	return sess, userID
}

// loginUser logs in on a fresh session and fetches a CSRF token.
func (app *testApp) loginUser(t *testing.T, username, password string) *session {
	t.Helper()

	sess := newSession()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request(t, sess, "POST", "/api/v1/auth/login", body, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	csrfRec := app.request(t, sess, "GET", "/api/v1/auth/csrf", "", false)
	if csrfRec.Code != http.StatusOK {
		t.Fatalf("csrf fetch failed: %d %s", csrfRec.Code, csrfRec.Body.String())
	}

	return sess
}
