package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studybridge/apply-platform/internal/api/handler"
	"github.com/studybridge/apply-platform/internal/api/middleware"
	"github.com/studybridge/apply-platform/internal/core/service"
	mongodb "github.com/studybridge/apply-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/studybridge/apply-platform/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Fails when the JWT secret is absent: the server must not start without a
// signing key.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("studybridge"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	applicationRepo := mongodb.NewApplicationRepository(db)
	progressCache := redisdb.NewProgressCache(rdb)

	authService, err := service.NewAuthService(userRepo, profileRepo, progressCache, jwtSecret, log)
	if err != nil {
		return nil, err
	}
	profileService := service.NewProfileService(profileRepo, progressCache, log)
	applicationService := service.NewApplicationService(applicationRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	requireAuth := middleware.Auth(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/profile", authHandler.GetAccount, requireAuth)
	e.PUT("/auth/profile", authHandler.UpdateAccount, requireAuth)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Profile and questionnaire routes ---
	profile := e.Group("/profile", requireAuth)
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.GET("/questionnaire/progress", profileHandler.Progress)
	profile.POST("/questionnaire/step", profileHandler.SaveStep)
	profile.POST("/questionnaire/complete", profileHandler.Complete)

	// --- Application routes ---
	applications := e.Group("/applications", requireAuth)
	applications.POST("", applicationHandler.Create)
	applications.GET("", applicationHandler.List)
	applications.GET("/:reference", applicationHandler.Get)
	applications.PUT("/:reference/status", applicationHandler.UpdateStatus)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb, log)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
