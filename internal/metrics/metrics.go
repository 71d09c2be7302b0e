// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commerce"

// Metrics bundles the registry with the application collectors.
type Metrics struct {
	Registry      *prometheus.Registry
	HTTP          *HTTPMetrics
	AuthAttempts  *prometheus.CounterVec
	RateLimitHits *prometheus.CounterVec
}

// New creates a registry with Go runtime and process collectors plus the
// application metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		HTTP:     NewHTTPMetrics(reg),
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Login attempts by realm (admin, store) and outcome.",
		}, []string{"realm", "outcome"}),
		RateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}
	reg.MustRegister(m.AuthAttempts, m.RateLimitHits)

	return m
}

// RegisterDBPool exports connection pool statistics.
func (m *Metrics) RegisterDBPool(pool *pgxpool.Pool) {
	gauge := func(name, help string, value func(*pgxpool.Stat) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(pool.Stat()) })
	}

	m.Registry.MustRegister(
		gauge("total_connections", "Connections currently open.", func(s *pgxpool.Stat) float64 {
			return float64(s.TotalConns())
		}),
		gauge("acquired_connections", "Connections currently in use.", func(s *pgxpool.Stat) float64 {
			return float64(s.AcquiredConns())
		}),
		gauge("idle_connections", "Idle connections.", func(s *pgxpool.Stat) float64 {
			return float64(s.IdleConns())
		}),
		gauge("max_connections", "Configured pool size.", func(s *pgxpool.Stat) float64 {
			return float64(s.MaxConns())
		}),
	)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
