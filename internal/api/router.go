package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/clubcore/members-system/docs"
	"github.com/clubcore/members-system/internal/api/handler"
	"github.com/clubcore/members-system/internal/api/middleware"
	"github.com/clubcore/members-system/internal/core/domain"
	"github.com/clubcore/members-system/internal/core/ports"
	"github.com/clubcore/members-system/internal/core/service"
	"github.com/clubcore/members-system/internal/infrastructure/config"
	mongostore "github.com/clubcore/members-system/internal/infrastructure/db/mongo"
	redisstore "github.com/clubcore/members-system/internal/infrastructure/db/redis"
	"github.com/clubcore/members-system/pkg/password"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, events ports.EventSink, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("members"))

	// --- Dependencies ---
	users := mongostore.NewUserRepository(db)
	sessions, err := mongostore.NewSessionStore(db, cfg.SessionEncSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	hasher := password.NewHasher(cfg.BcryptCost)
	throttle := redisstore.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	authService := service.NewAuthService(users, sessions, hasher, throttle, events, log)

	codec := middleware.NewCookieCodec(cfg.CookieSecret)
	e.Use(middleware.Session(codec))

	authHandler := handler.NewAuthHandler(authService, codec, cfg.SessionTTL)
	memberHandler := handler.NewMemberHandler()
	adminHandler := handler.NewAdminHandler(authService)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Members area ---
	e.GET("/members", memberHandler.Profile, middleware.RequireRole(authService, domain.RoleUser))

	// --- Admin panel ---
	admin := e.Group("/admin", middleware.RequireRole(authService, domain.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id/promote", adminHandler.Promote)
	admin.POST("/users/:id/demote", adminHandler.Demote)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
