package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nimeshabuddhika/go-base-project/pkg"
	"github.com/nimeshabuddhika/go-base-project/services/base-api/app"
	"github.com/nimeshabuddhika/go-base-project/services/base-api/configs"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	pkg.InitLogger()
	logger := pkg.Logger

	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// Process-wide timezone, set once before any request is served
	app.ApplyDefaultTimezone(logger)

	application, err := app.NewApp(logger, cfg)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}
	srv := application.Server

	// Start a server in goroutine to allow signal handling
	go func() {
		logger.Sugar().Infow("Base API started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Handle shutdown signals (SIGINT, SIGTERM) for a K8s pod termination grace period
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	// Timeout context for draining connections
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	// Flush logs before exit
	_ = logger.Sync()
}
