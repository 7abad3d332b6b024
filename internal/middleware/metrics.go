package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application-level metrics, registered on the default registry.
var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressbox_redis_errors_total",
		Help: "Total number of Redis command errors.",
	}, []string{"command"})

	// CacheHits counts tagged-cache hits by backend.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressbox_cache_hits_total",
		Help: "Total number of tagged cache hits.",
	}, []string{"backend"})

	// CacheMisses counts tagged-cache misses by backend.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressbox_cache_misses_total",
		Help: "Total number of tagged cache misses.",
	}, []string{"backend"})

	// ModerationOutcomes counts processed moderation units of work by outcome
	// (published, rejected, skipped, failed).
	ModerationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pressbox_moderation_outcomes_total",
		Help: "Total number of moderation units of work by outcome.",
	}, []string{"outcome"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
