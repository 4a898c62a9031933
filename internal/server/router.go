package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nonnoweb/nonnoweb/internal/cache"
	"github.com/nonnoweb/nonnoweb/internal/config"
	"github.com/nonnoweb/nonnoweb/internal/handler"
	"github.com/nonnoweb/nonnoweb/internal/metrics"
	"github.com/nonnoweb/nonnoweb/internal/middleware"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

// RouterDeps holds everything the router wires into handlers.
type RouterDeps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Kitchen *service.KitchenService
	Admin   *service.AdminService
	Metrics metrics.Snapshotter
	Limiter cache.Limiter
	// Store and Cache back the readiness probe. Cache may be nil.
	Store handler.HealthChecker
	Cache handler.HealthChecker
	// ClientSecret signs the client identity cookie.
	ClientSecret []byte
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(d RouterDeps) *chi.Mux {
	cfg := d.Config
	logger := d.Logger

	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.Store, d.Cache)
	metricsHandler := handler.NewMetricsHandler(d.Metrics)
	sessionHandler := handler.NewSessionHandler(d.Kitchen, logger)
	recipeHandler := handler.NewRecipeHandler(d.Kitchen, logger)
	planHandler := handler.NewPlanHandler(d.Admin, logger)
	userHandler := handler.NewUserHandler(d.Admin, logger)

	secCfg := middleware.DefaultSecurityConfig()
	secCfg.IsDevelopment = cfg.IsDevelopment()
	if cfg.MaxRequestBodySize > 0 {
		secCfg.MaxRequestBodySize = cfg.MaxRequestBodySize
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Security(secCfg))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.ClientIdentity(middleware.ClientConfig{
		Logger: logger,
		Secret: d.ClientSecret,
		TTL:    cfg.ClientTokenTTL,
		Secure: cfg.IsProduction(),
	}))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	rateLimit := middleware.RateLimitGenerate(middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: d.Limiter,
		Enabled: cfg.RateLimitGenerateEnabled,
		RPS:     cfg.RateLimitGenerateRPS,
		Burst:   cfg.RateLimitGenerateBurst,
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(secCfg.MaxRequestBodySize))
		r.Use(middleware.RequireJSON)
		r.Use(middleware.LoadSession(d.Kitchen))

		r.Route("/session", func(r chi.Router) {
			r.Post("/", sessionHandler.Login)
			r.Get("/", sessionHandler.Current)
			r.Delete("/", sessionHandler.Logout)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", planHandler.List)
			r.With(middleware.RequireAdmin).Put("/", planHandler.Save)
			r.With(middleware.RequireAdmin).Get("/{id}/expiry", planHandler.Expiry)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.With(rateLimit).Post("/generate", recipeHandler.Generate)
			r.Get("/current", recipeHandler.Current)
			r.Delete("/current", recipeHandler.ClearCurrent)
		})

		r.Route("/me/recipes", func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Get("/", recipeHandler.ListSaved)
			r.Post("/", recipeHandler.ToggleSave)
			r.Delete("/{id}", recipeHandler.Delete)
			r.Post("/{id}/select", recipeHandler.Select)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Patch("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
