// Package cli is the terminal front end of the Serenity client.
package cli

import (
	"context"
	"io"
	"net/http"

	"serenity/internal/adapter/weather"
	"serenity/internal/client/localstore"
	"serenity/internal/client/remote"
	"serenity/internal/client/syncer"
	"serenity/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// App wires the client components for one command invocation.
type App struct {
	cfg      *config.ClientConfig
	logger   *zap.Logger
	store    *localstore.Store
	remote   *remote.Client
	sync     *syncer.Orchestrator
	renderer *Renderer
}

func NewApp(cfg *config.ClientConfig, out io.Writer, logger *zap.Logger) (*App, error) {
	store, err := localstore.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	client := remote.New(cfg.APIURL, store, &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})

	var opts []syncer.Option
	if cfg.WeatherAPIKey != "" {
		opts = append(opts, syncer.WithWeatherProvider(
			weather.NewOpenWeather(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.RequestTimeout)))
	}

	var backend syncer.Remote
	if cfg.HasBackend {
		backend = client
	}

	renderer := NewRenderer(out)
	caps := syncer.Capabilities{HasBackend: cfg.HasBackend, TracksHistory: cfg.TracksHistory}

	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		remote:   client,
		sync:     syncer.New(backend, store, renderer, logger, caps, opts...),
		renderer: renderer,
	}, nil
}

// Start loads local state, probes the backend and resumes a saved session.
func (a *App) Start(ctx context.Context) error {
	if err := a.sync.Bootstrap(ctx); err != nil {
		return err
	}

	if !a.cfg.HasBackend {
		return nil
	}

	// Going online resumes a saved session.
	online := a.probe(ctx)
	a.sync.SetOnline(ctx, online)

	if !online {
		a.logger.Debug("Backend unreachable, starting offline", zap.String("api_url", a.cfg.APIURL))
	}

	return nil
}

func (a *App) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	_, err := a.remote.Health(ctx)

	return err == nil
}

// action bounds one command with the configured request timeout.
func (a *App) action(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.RequestTimeout)
}

func (a *App) Close() error {
	_ = a.logger.Sync()
	return a.store.Close()
}
