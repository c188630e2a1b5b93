package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	httpHandlers "github.com/vimtodo/core/internal/adapters/http"
	"github.com/vimtodo/core/internal/adapters/repository"
	"github.com/vimtodo/core/internal/application/autosave"
	"github.com/vimtodo/core/internal/application/services"
	"github.com/vimtodo/core/internal/application/workspace"
	"github.com/vimtodo/core/internal/infrastructure/config"
	"github.com/vimtodo/core/internal/infrastructure/database"
	"github.com/vimtodo/core/internal/infrastructure/logger"
	"github.com/vimtodo/core/internal/infrastructure/metrics"

	_ "github.com/vimtodo/core/docs"
)

// Server represents the HTTP server
type Server struct {
	echo        *echo.Echo
	config      *config.Config
	logger      *logger.Logger
	db          *database.DB
	authService *services.AuthService
	workspaces  *workspace.Manager
	metrics     *metrics.Metrics
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	var recorder autosave.Recorder
	if cfg.Metrics.Enabled {
		server.metrics = metrics.New(func() int { return server.workspaces.Len() })
		recorder = server.metrics
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	authRepo := repository.NewAuthRepository(db.DB)
	store := repository.NewStore(db.DB)

	// Initialize services
	server.authService = services.NewAuthService(userRepo, authRepo, cfg.JWT, appLogger)
	server.workspaces = workspace.NewManager(store, workspace.Options{
		Logger: appLogger,
		Autosave: autosave.Options{
			Delay:    cfg.Autosave.Debounce,
			Recorder: recorder,
			Logger:   appLogger,
			OnError: func(noteID string, err error) {
				appLogger.Errorw("Autosave failed", "note_id", noteID, "error", err)
			},
		},
	})

	server.setupMiddleware()
	if server.metrics != nil {
		server.echo.Use(server.metrics.Middleware())
		server.echo.GET("/metrics", echo.WrapHandler(server.metrics.Handler()))
	}
	server.setupRoutes()

	return server, nil
}

// Workspaces exposes the per-owner workspace manager.
func (s *Server) Workspaces() *workspace.Manager {
	return s.workspaces
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
				"request_id", values.RequestID,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			// draft edits arrive per keystroke burst
			return strings.HasSuffix(c.Path(), "/session/draft")
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(s.config.Security.RateLimitRequests) / s.config.Security.RateLimitWindow.Seconds()),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.RequestID())

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: s.config.Server.RequestTimeout,
		}))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	authHandler := httpHandlers.NewAuthHandler(s.authService, s.workspaces, s.logger)
	taskHandler := httpHandlers.NewTaskHandler(s.workspaces, s.logger)
	noteHandler := httpHandlers.NewNoteHandler(s.workspaces, s.logger)
	workspaceHandler := httpHandlers.NewWorkspaceHandler(s.workspaces, s.logger, nil)

	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := s.echo.Group("/api/v1")

	// Auth routes (public)
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.RefreshToken)
	authGroup.POST("/logout", authHandler.Logout, s.authMiddleware())

	// Everything below is scoped to the signed-in owner
	owned := v1.Group("", s.authMiddleware())

	owned.GET("/tasks", taskHandler.List)
	owned.POST("/tasks", taskHandler.Create)
	owned.PUT("/tasks/:id", taskHandler.Update)
	owned.DELETE("/tasks/:id", taskHandler.Delete)
	owned.POST("/tasks/:id/toggle", taskHandler.Toggle)

	owned.GET("/notes", noteHandler.List)
	owned.POST("/notes", noteHandler.Create)
	owned.GET("/notes/:id", noteHandler.Get)
	owned.DELETE("/notes/:id", noteHandler.Delete)
	owned.PUT("/notes/:id/content", noteHandler.UpdateContent)
	owned.POST("/notes/:id/images", noteHandler.AddImage)
	owned.DELETE("/notes/:id/images/:index", noteHandler.RemoveImage)

	owned.POST("/notes/:id/session", noteHandler.OpenSession)
	owned.PUT("/notes/:id/session/draft", noteHandler.EditDraft)
	owned.POST("/notes/:id/session/flush", noteHandler.FlushSession)
	owned.DELETE("/notes/:id/session", noteHandler.EndSession)

	owned.GET("/history", workspaceHandler.History)
	owned.GET("/config", workspaceHandler.GetConfig)
	owned.PATCH("/config", workspaceHandler.UpdateConfig)
	owned.GET("/stats", workspaceHandler.Stats)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(c.Request().Context()); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	checks["workspaces"] = map[string]interface{}{
		"status": "ok",
		"active": s.workspaces.Len(),
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunSweeper ends idle workspaces every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.workspaces.Sweep(ctx, idle); n > 0 {
				s.logger.Infow("Released idle workspaces", "count", n)
			}
			if _, err := s.authService.CleanupExpiredTokens(ctx); err != nil {
				s.logger.Warnw("Failed to clean up refresh tokens", "error", err)
			}
		}
	}
}

// Shutdown stops accepting requests, then flushes every open workspace.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	err := s.echo.Shutdown(ctx)

	if n := s.workspaces.ReleaseAll(ctx); n > 0 {
		s.logger.Infow("Flushed workspaces on shutdown", "count", n)
	}
	return err
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		if errors.As(err, &he) {
			code = he.Code
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if errors.As(err, &ve) {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
