package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"idverify/internal/platform/metrics"
	"idverify/pkg/platform/httputil"
	"idverify/pkg/platform/middleware/auth"
	"idverify/pkg/platform/middleware/metadata"
	"idverify/pkg/platform/middleware/request"
	"idverify/pkg/platform/middleware/requesttime"
)

// healthCheckTimeout bounds each dependency probe in /healthz.
const healthCheckTimeout = 2 * time.Second

// Registrar mounts a module's endpoints.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// RouterConfig collects everything NewRouter mounts.
type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator auth.JWTValidator
	// Public routes skip caller authentication (signed-URL file server).
	Public []Registrar
	// Protected routes require a valid bearer token.
	Protected []Registrar
	Checks    map[string]HealthCheck
}

// NewRouter wires the middleware chain, operational endpoints and module routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(request.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(cfg.Checks, cfg.Logger))
	r.Handle("/metrics", promhttp.Handler())

	for _, reg := range cfg.Public {
		reg.Register(r)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		for _, reg := range cfg.Protected {
			reg.Register(pr)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"check", name,
					"request_id", request.GetRequestID(ctx),
					"error", err,
				)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
