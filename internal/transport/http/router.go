package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"ratedesk/internal/config"
	"ratedesk/internal/middleware"
	"ratedesk/internal/services"
)

// NewRouter assembles the full API router with the standard middleware
// chain.
func NewRouter(svc *services.PricingService, cfg *config.Config, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Compress(5))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	quoteHandler := NewQuoteHandler(svc, logger)
	scheduleHandler := NewScheduleHandler(svc, logger)
	healthHandler := NewHealthHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/quote", quoteHandler.Routes())
		r.Mount("/schedule", scheduleHandler.Routes())
	})
	r.Get("/healthz", healthHandler.GetHealth)
	r.Handle("/metrics", MetricsHandler())

	return r
}
