package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/config"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/eventbus"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(&cfg.Logging)
	defer logger.Sync()

	db, err := postgres.NewStore(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	var bus *eventbus.Bus
	redis, err := eventbus.Connect(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, assignment events disabled", zap.Error(err))
	} else {
		defer redis.Close()
		bus = eventbus.NewBus(redis)
	}

	server := apiserver.NewServer(db, cfg, logger, bus)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.ReadTimeout * 2,
	}

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: promhttp.Handler(),
	}

	go func() {
		logger.Info("Starting metrics server", zap.Int("port", cfg.Server.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("Starting API server", zap.Int("port", cfg.Server.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.LoggingConfig) *zap.Logger {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.Level); err == nil {
		zapCfg.Level = level
	}
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
