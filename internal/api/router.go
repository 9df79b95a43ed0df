package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/videocatalog/video-metadata-service/internal/api/handler"
	"github.com/videocatalog/video-metadata-service/internal/api/middleware"
	"github.com/videocatalog/video-metadata-service/internal/core/domain"
	"github.com/videocatalog/video-metadata-service/internal/core/ports"
	"github.com/videocatalog/video-metadata-service/internal/infrastructure/http/handlers"
)

const metricsSubsystem = "http"

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Auth   ports.AuthService
	Videos ports.VideoService
	// Readiness lists the dependencies /health/ready pings, keyed by name.
	Readiness map[string]handlers.Pinger
	// Policy defaults to middleware.DefaultPolicy.
	Policy *middleware.Policy
	// PublicPaths overrides the paths that skip token resolution. When empty
	// the public patterns of Policy are used.
	PublicPaths []string
	Version     string
	Logger      zerolog.Logger
	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	policy := deps.Policy
	if policy == nil {
		policy = middleware.DefaultPolicy()
	}
	publicPaths := deps.PublicPaths
	if len(publicPaths) == 0 {
		publicPaths = policy.PublicPatterns()
	}
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "video_catalog",
		Subsystem:                 metricsSubsystem,
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))
	// The logger handles errors, so it sits inside the metrics middleware
	// for the recorded status to match the response.
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Authenticate(middleware.AuthenticateConfig{
		Resolver: deps.Auth,
		Skipper:  middleware.NewPathMatcher(publicPaths).Skipper(),
		Logger:   deps.Logger.With().Str("component", "authenticate").Logger(),
	}))
	e.Use(middleware.Authorize(policy, deps.Logger.With().Str("component", "authorize").Logger()))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	videoHandler := handler.NewVideoHandler(deps.Videos)
	healthHandler := handlers.NewHealthHandler(deps.Version)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	// --- Public ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.GET("/auth/health", authHandler.Health)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated ---
	e.GET("/auth/me", authHandler.Me)

	videos := e.Group("/videos")
	videos.GET("", videoHandler.List)
	videos.POST("", videoHandler.Create)
	videos.GET("/search", videoHandler.Search)
	videos.GET("/stats", videoHandler.Stats)
	videos.GET("/import", videoHandler.Import)
	videos.POST("/import", videoHandler.Import)
	videos.GET("/:id", videoHandler.Get)
	videos.PUT("/:id", videoHandler.Update)
	videos.DELETE("/:id", videoHandler.Delete, middleware.RequireRole(domain.RoleAdmin))

	// --- Admin ---
	e.PUT("/admin/users/:username/role", authHandler.ChangeRole)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Status >= 400:
				evt = log.Warn()
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
