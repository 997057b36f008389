package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"serenity/internal/adapter/database/memory"
	"serenity/internal/adapter/logging"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/config"

	"go.uber.org/zap"
)

// StartServer serves the API until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *logging.LokiLogger) error {
	container := NewContainer(memory.New(), cfg, logger, metrics, nil)
	router := SetupRouter(container, metrics, logger, cfg)

	logger.Zap().Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Zap().Info("Server shutting down")

	return srv.Shutdown(shutdownCtx)
}
