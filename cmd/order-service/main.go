package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/djglaser/spookymart-ecommerce/internal/config"
	"github.com/djglaser/spookymart-ecommerce/internal/gateway/middleware"
	"github.com/djglaser/spookymart-ecommerce/internal/httpx"
	"github.com/djglaser/spookymart-ecommerce/internal/logging"
	"github.com/djglaser/spookymart-ecommerce/internal/orders"
)

const (
	serviceName = "spookymart-order-service"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.LoadOrder()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var repo orders.Repository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		repo = orders.NewSQLRepository(db)
		logger.Info("orders persisted in postgres")
	} else {
		repo = orders.NewMemoryRepository(orders.Seed()...)
		logger.Info("DATABASE_URL not set; orders kept in memory only")
	}
	if err := repo.Init(); err != nil {
		logger.Fatal("repository init failed", zap.Error(err))
	}

	products := orders.NewProductClient(cfg.ProductServiceURL, logger.Named("products"))
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           buildRouter(cfg, repo, products, logger),
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

	logger.Info("order service listening",
		zap.String("addr", srv.Addr),
		zap.String("environment", cfg.Environment),
		zap.String("product_service", cfg.ProductServiceURL))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("order service stopped")
}

func buildRouter(cfg *config.Order, repo orders.Repository, products *orders.ProductClient, logger *zap.Logger) http.Handler {
	stack := middleware.Chain(
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RequestID(),
		middleware.AccessLog(logger.Named("access")),
		middleware.Recovery(logger, config.Production(cfg.Environment)),
	)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		productHealthy := products.Health(req.Context())
		status := "healthy"
		code := http.StatusOK
		if !productHealthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		httpx.JSON(w, code, map[string]any{
			"status":    status,
			"service":   serviceName,
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"dependencies": map[string]any{
				"product_service": map[string]any{
					"url":     products.BaseURL(),
					"healthy": productHealthy,
				},
			},
		})
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"service":     serviceName,
			"version":     version,
			"description": "SpookyMart order management API",
			"endpoints": map[string]string{
				"health": "GET /health",
				"orders": "GET|POST /api/orders/, GET|PUT|DELETE /api/orders/{id}, GET /api/orders/{id}/status",
			},
			"dependencies": map[string]string{
				"product_service": products.BaseURL(),
			},
		})
	})

	r.Mount("/api/orders", orders.NewHandler(repo, products, logger).Routes())
	return stack(r)
}
