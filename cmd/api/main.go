package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	server "serenity/internal/adapter/http"
	"serenity/internal/adapter/logging"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/config"
)

func main() {
	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.NewLokiLogger(cfg.ServiceName, cfg.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	container, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Exporting:      cfg.TelemetryEnabled,
	}, logger.Zap())

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer container.Shutdown(context.Background())

	container.AppMetrics.StartSystemMetrics(ctx)

	if err := server.StartServer(ctx, cfg, container.AppMetrics, logger); err != nil {
		logger.Zap().Fatal("Server failed", zap.Error(err))
	}

	logger.Zap().Info("Shut down gracefully")
}
