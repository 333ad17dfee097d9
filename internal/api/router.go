package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/api/handler"
	apimw "github.com/dorfportal/reminder-service/internal/api/middleware"
	"github.com/dorfportal/reminder-service/internal/scheduler"
	"github.com/dorfportal/reminder-service/internal/service"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	baseCtx context.Context,
	clock *scheduler.Clock,
	subs *service.SubscriptionService,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	sh := handler.NewSchedulerHandler(baseCtx, clock)
	subh := handler.NewSubscriptionHandler(subs, logger)
	ph := handler.NewPermissionHandler()
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scheduler", sh.Status)
		r.Post("/scheduler/start", sh.Start)
		r.Post("/scheduler/stop", sh.Stop)

		r.Post("/push/subscriptions", subh.Register)
		r.Delete("/push/subscriptions", subh.Unregister)

		r.Post("/permissions/preview", ph.Preview)
	})

	return r
}
