package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/coursehub/account-service/docs"
	"github.com/coursehub/account-service/internal/api/handler"
	"github.com/coursehub/account-service/internal/api/middleware"
	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
	"github.com/coursehub/account-service/internal/infrastructure/http/handlers"
)

// RouterConfig carries everything the HTTP layer needs. Mongo and Redis are
// optional and only feed the readiness probe.
type RouterConfig struct {
	Accounts handler.AccountService
	Verifier middleware.TokenVerifier
	// Roles enables PUT /accounts/roles when set.
	Roles    ports.RoleCatalog
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
	// Registry receives the HTTP request metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Account routes ---
	accountHandler := handler.NewAccountHandler(cfg.Accounts)
	authMiddleware := middleware.Auth(cfg.Verifier)

	g := e.Group("/accounts")
	g.POST("/login", accountHandler.Login)
	g.POST("/register", accountHandler.Register)
	g.GET("/me", accountHandler.Me, authMiddleware)

	if cfg.Roles != nil {
		roleHandler := handler.NewRoleHandler(cfg.Roles)
		g.PUT("/roles", roleHandler.Upsert, authMiddleware, middleware.RequirePolicy(domain.PolicyInstructorCreate))
	}

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
