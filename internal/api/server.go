// Package api provides the HTTP API server for serverdash.
// It uses Echo framework to serve the dashboard's JSON endpoints and a
// WebSocket stream of service status.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "evalgo.org/serverdash/docs" // Import generated docs
	"evalgo.org/serverdash/internal/aggregator"
	"evalgo.org/serverdash/internal/auth"
	"evalgo.org/serverdash/internal/config"
	"evalgo.org/serverdash/internal/validation"
	"evalgo.org/serverdash/internal/version"
	"evalgo.org/serverdash/models"
)

// ServiceAggregator answers service queries. *aggregator.Aggregator
// satisfies it.
type ServiceAggregator interface {
	GetServices(ctx context.Context, filter models.Filter, detail models.Detail) (models.ServiceList, aggregator.Report)
}

// ContainerRuntime serves the container endpoints. *runtime.Collector
// satisfies it.
type ContainerRuntime interface {
	Containers(ctx context.Context) ([]models.DockerContainer, error)
	Stats(ctx context.Context) (models.DockerStats, error)
	Logs(ctx context.Context, id string, tail int, since string) ([]string, error)
	PerformAction(ctx context.Context, id, action string) error
	NetworkCount(ctx context.Context) (int, error)
}

// HostReader reads host facts. *hostinfo.Reader satisfies it.
type HostReader interface {
	SystemInfo(ctx context.Context) (models.SystemInfo, error)
}

// Dependencies are the collaborators the handlers delegate to.
type Dependencies struct {
	Services ServiceAggregator
	Runtime  ContainerRuntime
	Host     HostReader
}

// Server represents the serverdash API server.
type Server struct {
	echo       *echo.Echo
	config     *config.Config
	deps       Dependencies
	authMiddle *auth.Middleware
	logger     *slog.Logger
}

// New creates a new API server instance.
func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = validation.New()

	server := &Server{
		echo:       e,
		config:     cfg,
		deps:       deps,
		authMiddle: auth.NewMiddleware(cfg),
		logger:     logger.With("component", "api"),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(Metrics)
	s.echo.Use(RequestID())
	s.echo.Use(RequestLogger(s.logger))

	s.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			panicRecoveries.Inc()
			s.logger.Error("handler panicked", "uri", c.Request().RequestURI, "error", err, "stack", string(stack))
			return err
		},
	}))

	s.echo.Use(SecurityHeaders)

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.CORSOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/health" || c.Path() == "/metrics" || c.Path() == "/docs/*"
			},
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(s.config.Security.RateLimit)),
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				rateLimitRejects.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			},
		}))
	}

	s.echo.Use(ValidateContentType)
	s.echo.Use(ValidateAcceptHeader)
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api")
	api.GET("/system", s.getSystemInfo)
	api.GET("/network", s.getNetworkInfo)
	api.GET("/services", s.getServices)
	api.GET("/ui/polling", s.getPolling)
	api.GET("/ws/services", s.streamServices)

	docker := api.Group("/docker")
	docker.GET("/containers", s.listContainers)
	docker.GET("/stats", s.getDockerStats)
	docker.GET("/containers/:id/logs", s.getContainerLogs)
	docker.POST("/containers/:id/:action", s.containerAction, s.authMiddle.RequireActions)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.logger.Info("starting serverdash API server",
		"address", "http://"+addr,
		"environment", s.config.Server.Environment,
		"cors_origins", strings.Join(s.config.CORSOrigins(), ","),
		"auth_enabled", s.config.Security.AuthEnabled,
		"build", version.Get(),
	)

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down serverdash API server")

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// healthCheck handles health check requests.
// @Summary Health check
// @Description Report that the API server is up
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Server is healthy"
// @Router /health [get]
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// detached returns the request context without its cancellation, so that a
// client disconnect does not abort collaborator queries in flight.
func detached(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

// ServeHTTP allows Server to implement http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
