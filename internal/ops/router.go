package ops

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RouterDeps holds the dependencies probed by the operational endpoints.
type RouterDeps struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// NewRouter builds the operational HTTP surface: health probes and the
// Prometheus metrics endpoint. There is deliberately no business API here.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	h := NewHealthHandler(deps.Pool, deps.Redis)
	r.Get("/health", h.Health)
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
