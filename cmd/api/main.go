package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lifeweeks/internal/config"
	"lifeweeks/internal/database"
	"lifeweeks/internal/handlers"
	"lifeweeks/internal/logger"
	"lifeweeks/internal/middleware"
	"lifeweeks/internal/services"
	"lifeweeks/internal/validator"

	_ "lifeweeks/internal/docs" // Import swagger docs
)

// @title           Lifeweeks API
// @version         1.0
// @description     Lifeweeks is a personal life-tracking application: events on a week/day grid spanning up to 80 years, with free-form tags.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Cookie-based sessions are also supported.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db, userService)
	profileService := services.NewProfileService(db)
	settingsService := services.NewSettingsService(db)
	tagService := services.NewTagService(db)
	eventService := services.NewEventService(db, tagService)
	dashboardService := services.NewDashboardService(db, userService, tagService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	profileHandler := handlers.NewProfileHandler(profileService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	tagHandler := handlers.NewTagHandler(tagService)
	eventHandler := handlers.NewEventHandler(eventService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware. Cookie auth needs credentials, so the origin is
	// echoed back instead of using a wildcard.
	router.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.CSRFHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/csrf", authHandler.GetCSRFToken)

	// Logout needs a valid session to know which token to revoke, but is
	// exempt from CSRF.
	auth.POST("/logout", middleware.AuthMiddlewareNoCSRF(), authHandler.Logout)

	// Authenticated auth routes
	authProtected := auth.Group("/")
	authProtected.Use(middleware.AuthMiddleware())
	authProtected.GET("/user", authHandler.GetCurrentUser)
	authProtected.PUT("/user", authHandler.UpdateCurrentUser)
	authProtected.POST("/change-password", authHandler.ChangePassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Dashboard
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	// Settings
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

	// Profile routes
	profiles := protected.Group("/profiles")
	profiles.GET("", profileHandler.GetUserProfiles)
	profiles.GET("/me", profileHandler.GetMyProfile)
	profiles.GET("/:id", profileHandler.GetProfileByID)
	profiles.PUT("/:id", profileHandler.UpdateProfile)

	// Tag routes
	tags := protected.Group("/tags")
	tags.POST("", tagHandler.CreateTag)
	tags.GET("", tagHandler.GetUserTags)
	tags.GET("/:id", tagHandler.GetTagByID)
	tags.DELETE("/:id", tagHandler.DetachTag)

	// Event routes
	events := protected.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.GetUserEvents)
	events.GET("/week_range", eventHandler.WeekRange)
	events.GET("/:id", eventHandler.GetEventByID)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	log.Infof("Starting Lifeweeks backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
