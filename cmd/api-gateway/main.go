package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/djglaser/spookymart-ecommerce/internal/config"
	"github.com/djglaser/spookymart-ecommerce/internal/gateway"
	"github.com/djglaser/spookymart-ecommerce/internal/logging"
)

func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := gateway.New(cfg, logger)
	if err != nil {
		logger.Fatal("gateway init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown did not drain cleanly", zap.Error(err))
		}
	}()

	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("gateway stopped")
}
