package lifecycle

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// HealthChecker exposes liveness and readiness probes.
type HealthChecker interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

// ReadinessCheck reports whether dependencies are usable.
type ReadinessCheck interface {
	Err(ctx context.Context) error
}

// Probes answers liveness while the process runs and readiness from the dependency checks.
// Readiness fails as soon as shutdown starts.
type Probes struct {
	log      *slog.Logger
	ready    ReadinessCheck
	draining atomic.Bool
}

// NewProbes creates a new Probes instance. A nil check makes readiness follow liveness.
func NewProbes(log *slog.Logger, ready ReadinessCheck) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{log: log, ready: ready}
}

// Liveness always reports success.
func (p *Probes) Liveness(ctx context.Context) error {
	p.log.DebugContext(ctx, "liveness probe called")
	return nil
}

// Readiness runs the dependency checks.
func (p *Probes) Readiness(ctx context.Context) error {
	p.log.DebugContext(ctx, "readiness probe called")

	if p.draining.Load() {
		return errDraining
	}
	if p.ready == nil {
		return nil
	}
	return p.ready.Err(ctx)
}

// Drain marks the process as shutting down.
func (p *Probes) Drain(context.Context) error {
	p.draining.Store(true)
	return nil
}

type probeResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ProbeHandler serves a probe as JSON: 200 when it passes, 503 otherwise.
func ProbeHandler(probe func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := probeResponse{Status: "ok"}
		code := http.StatusOK

		if err := probe(r.Context()); err != nil {
			resp = probeResponse{Status: "unavailable", Error: err.Error()}
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
