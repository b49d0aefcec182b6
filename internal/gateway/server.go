// Package gateway composes the SpookyMart API gateway: static proxy rules,
// composite health, per-client rate limiting, and the cross-cutting
// middleware stack.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/djglaser/spookymart-ecommerce/internal/config"
	"github.com/djglaser/spookymart-ecommerce/internal/gateway/middleware"
	"github.com/djglaser/spookymart-ecommerce/internal/health"
	"github.com/djglaser/spookymart-ecommerce/internal/proxy"
	"github.com/djglaser/spookymart-ecommerce/internal/ratelimit"
)

// ServiceName and Version identify the gateway in the descriptor and health
// bodies.
const (
	ServiceName = "spookymart-api-gateway"
	Version     = "1.0.0"
)

const (
	productUpstream = "product-service"
	orderUpstream   = "order-service"
)

// Server is the gateway frontend.
type Server struct {
	cfg    *config.Gateway
	log    *zap.Logger
	router chi.Router
	agg    *health.Aggregator
	store  *ratelimit.MemoryStore // nil when Redis-backed
	http   *http.Server
}

// New wires the gateway from config. The proxy rule set is fixed here: the
// product path passes through unchanged while the order collection route
// gains the trailing slash its upstream mounts it with.
func New(cfg *config.Gateway, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, log: log}

	targets := []health.Target{
		{Name: productUpstream, BaseURL: cfg.ProductServiceURL},
		{Name: orderUpstream, BaseURL: cfg.OrderServiceURL},
	}
	s.agg = health.NewAggregator(health.NewProber(cfg.HealthTimeout), targets, log.Named("health"))

	rules := []proxy.Rule{
		{
			Name:       productUpstream,
			PathPrefix: "/api/products",
			BaseURL:    cfg.ProductServiceURL,
		},
		{
			Name:       orderUpstream,
			PathPrefix: "/api/orders",
			BaseURL:    cfg.OrderServiceURL,
			RewriteExact: map[string]string{
				"/api/orders": "/api/orders/",
			},
		},
	}
	router, err := proxy.NewRouter(rules, cfg.ProxyTimeout, http.HandlerFunc(s.notFound), log.Named("proxy"))
	if err != nil {
		return nil, err
	}

	var store ratelimit.Store
	if cfg.RedisAddr != "" {
		rs, err := ratelimit.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("rate limit store: %w", err)
		}
		store = rs
		log.Info("rate limiting backed by redis", zap.String("addr", cfg.RedisAddr))
	} else {
		ms := ratelimit.NewMemoryStore()
		s.store = ms
		store = ms
	}
	limiter := ratelimit.NewLimiter(store, cfg.RateLimitMax, cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.MaxBody(cfg.MaxBodyBytes))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log.Named("access")))
	r.Use(middleware.Recovery(log, config.Production(cfg.Environment)))

	r.Get("/", s.describe)
	r.Get("/health", s.compositeHealth)

	// the rate limiter guards proxied traffic only; health and the
	// descriptor stay reachable for probes
	limited := limiter.Middleware(cfg.TrustProxy, log.Named("ratelimit"))(router)
	r.Handle("/api/*", limited)

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.notFound)

	s.router = r
	// built here so a shutdown signal racing Start still has a server to stop
	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	return s, nil
}

// Handler exposes the composed handler for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the HTTP server and, for the in-memory rate limit store, its
// eviction janitor, until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s.store != nil {
		s.store.StartJanitor(ctx, s.cfg.RateLimitWindow, s.cfg.RateLimitWindow)
	}

	s.log.Info("gateway listening",
		zap.String("addr", s.http.Addr),
		zap.String("environment", s.cfg.Environment),
		zap.String("product_service", s.cfg.ProductServiceURL),
		zap.String("order_service", s.cfg.OrderServiceURL))
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.log.Info("gateway shutting down")
	return s.http.Shutdown(ctx)
}
