package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/djglaser/spookymart-ecommerce/internal/catalog"
	"github.com/djglaser/spookymart-ecommerce/internal/config"
	"github.com/djglaser/spookymart-ecommerce/internal/gateway/middleware"
	"github.com/djglaser/spookymart-ecommerce/internal/httpx"
	"github.com/djglaser/spookymart-ecommerce/internal/logging"
)

const (
	serviceName = "spookymart-product-service"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.LoadProduct()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store := catalog.NewStore(catalog.Seed()...)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           buildRouter(cfg, store, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("product service listening",
		zap.String("addr", srv.Addr),
		zap.String("environment", cfg.Environment))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("product service stopped")
}

func buildRouter(cfg *config.Product, store *catalog.Store, logger *zap.Logger) http.Handler {
	stack := middleware.Chain(
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RequestID(),
		middleware.AccessLog(logger.Named("access")),
		middleware.Recovery(logger, config.Production(cfg.Environment)),
	)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"service":   serviceName,
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"service":     serviceName,
			"version":     version,
			"description": "SpookyMart product catalog API",
			"endpoints": map[string]string{
				"health":   "GET /health",
				"products": "GET|POST /api/products, GET|PUT|DELETE /api/products/{id}",
			},
		})
	})

	r.Mount("/api/products", catalog.NewHandler(store, logger).Routes())
	return stack(r)
}
