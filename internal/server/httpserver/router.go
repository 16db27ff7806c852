package httpserver

import (
	"net/http"

	"github.com/yndnr/kiwi/internal/core/service"
	"github.com/yndnr/kiwi/internal/server/httpserver/handler"
	"github.com/yndnr/kiwi/internal/telemetry/logger"
	"github.com/yndnr/kiwi/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the key/value and probe endpoints.
	Handler *handler.Handler

	// Logger for request logging.
	Logger logger.Logger

	// Metrics records per-route request metrics. Nil disables recording.
	Metrics *metric.Registry

	// ExposeMetrics mounts GET /metrics from Metrics.
	ExposeMetrics bool

	// RateLimit is requests per second per client IP (0 = unlimited).
	RateLimit int

	// TrustProxy honors X-Forwarded-For / X-Real-IP for the client IP.
	TrustProxy bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
//
// Order: RequestID -> Recover -> ClientIP -> AccessLog -> Metrics -> RateLimit -> Handler.
// Probes and /metrics skip rate limiting.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	limits := service.NewRateLimiterRegistry(cfg.RateLimit)

	mux := http.NewServeMux()

	route := func(pattern, name string, h http.Handler, extra ...Middleware) {
		mws := []Middleware{
			RequestID(log),
			Recover(),
			ClientIP(cfg.TrustProxy),
			AccessLog(),
			Metrics(cfg.Metrics, name),
		}
		mux.Handle(pattern, Chain(h, append(mws, extra...)...))
	}

	route("GET /health", "/health", cfg.Handler)
	route("GET /ready", "/ready", cfg.Handler)

	if cfg.ExposeMetrics && cfg.Metrics != nil {
		route("GET /metrics", "/metrics", cfg.Metrics.Handler())
	}

	route("POST /set", "/set", cfg.Handler, RateLimit(limits))
	route("POST /get", "/get", cfg.Handler, RateLimit(limits))
	route("POST /del", "/del", cfg.Handler, RateLimit(limits))

	return mux
}
