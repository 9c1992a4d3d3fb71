package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
)

// Deps are the connections the server is built on. Redis and Images are
// optional: without Redis there is no rate limiting or token revocation,
// without Images photo uploads answer 503.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Images service.ImageStore
	Log    *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New wires services, middleware and routes.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.DB == nil {
		return nil, errors.New("server: database is required")
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := api.RegisterValidators(); err != nil {
		return nil, err
	}

	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	auth := service.NewAuthService(deps.DB, deps.Redis, cfg.JWTSecret, cfg.SessionTTL)
	recipes := service.NewRecipeService(deps.DB)
	svc := api.Services{
		Auth:        auth,
		Recipes:     recipes,
		Ingredients: service.NewIngredientService(deps.DB),
		Comments:    service.NewCommentService(deps.DB),
		Profiles:    service.NewProfileService(deps.DB),
		Images:      service.NewImageService(deps.Images, recipes),
	}

	var limiters api.Limiters
	if deps.Redis != nil {
		limiters.RecipeCreation = middleware.NewRecipeCreationRateLimiter(deps.Redis, log)
		limiters.Comments = middleware.NewCommentRateLimiter(deps.Redis, log)
	}

	metrics := middleware.NewMetrics()

	router := gin.New()
	router.Use(
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.OptionalAuth(auth),
	)

	router.GET("/health", api.HealthCheck(deps.DB))
	router.GET("/metrics", metrics.Handler())
	api.RegisterRoutes(router, svc, limiters, cfg.Environment.IsProduction())

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
