// Package ops serves the operational HTTP endpoints: Prometheus metrics and health probes.
package ops

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/mewfi-bot/internal/lifecycle"
	"github.com/Proton-105/mewfi-bot/internal/middleware"
	"github.com/Proton-105/mewfi-bot/pkg/logger"
)

// NewRouter mounts /metrics, /healthz and /readyz.
func NewRouter(log *slog.Logger, probes lifecycle.HealthChecker) http.Handler {
	router := chi.NewRouter()
	router.Use(logger.Middleware)
	router.Use(middleware.New(log))
	router.Use(chimw.Recoverer)

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Get("/healthz", lifecycle.ProbeHandler(probes.Liveness))
	router.Get("/readyz", lifecycle.ProbeHandler(probes.Readiness))

	return router
}
