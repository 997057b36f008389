package http

import (
	"context"
	"time"

	"serenity/internal/adapter/database/memory"
	"serenity/internal/adapter/http/handler"
	"serenity/internal/adapter/logging"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/adapter/weather"
	"serenity/internal/config"
	"serenity/internal/core/domain"
	"serenity/internal/core/port"
	"serenity/internal/core/service"
	"serenity/pkg/auth"
)

type Container struct {
	UserRepo    port.UserRepository
	TodoRepo    port.TodoRepository
	HistoryRepo port.HistoryRepository

	AuthService    port.AuthService
	UserService    port.UserService
	TodoService    port.TodoService
	WeatherService port.WeatherService
	QuoteService   port.QuoteService

	Tokens *auth.JWT

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	TodoHandler    *handler.TodoHandler
	WeatherHandler *handler.WeatherHandler
	QuoteHandler   *handler.QuoteHandler
	HealthHandler  *handler.HealthHandler
}

// NewContainer wires the in-memory store, services and handlers. A nil
// provider selects OpenWeatherMap behind the TTL cache.
func NewContainer(db *memory.DB, cfg *config.AppConfig, logger *logging.LokiLogger, metrics *telemetry.AppMetrics, provider port.WeatherProvider) *Container {
	userRepo := memory.NewUserRepository(db)
	todoRepo := memory.NewTodoRepository(db)
	historyRepo := &countingHistory{HistoryRepository: memory.NewHistoryRepository(db), metrics: metrics}

	if provider == nil {
		provider = weather.NewOpenWeather(cfg.WeatherBaseURL, cfg.WeatherAPIKey, 10*time.Second)
	}

	var observer weather.CacheObserver
	if metrics != nil {
		observer = metrics
	}

	tokens := auth.NewJWT(cfg.JWTSecret)

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	todoSvc := service.NewTodoService(todoRepo, historyRepo)
	weatherSvc := service.NewWeatherService(weather.NewCachedProvider(provider, cfg.WeatherTTL, observer))
	quoteSvc := service.NewQuoteService(nil)

	return &Container{
		UserRepo:    userRepo,
		TodoRepo:    todoRepo,
		HistoryRepo: historyRepo,

		AuthService:    authSvc,
		UserService:    userSvc,
		TodoService:    todoSvc,
		WeatherService: weatherSvc,
		QuoteService:   quoteSvc,

		Tokens: tokens,

		AuthHandler:    handler.NewAuthHandler(authSvc, tokens, logger, metrics),
		UserHandler:    handler.NewUserHandler(userSvc, logger),
		TodoHandler:    handler.NewTodoHandler(todoSvc, logger, metrics),
		WeatherHandler: handler.NewWeatherHandler(weatherSvc, logger),
		QuoteHandler:   handler.NewQuoteHandler(quoteSvc),
		HealthHandler:  handler.NewHealthHandler(time.Now()),
	}
}

// countingHistory counts newly recorded history entries.
type countingHistory struct {
	port.HistoryRepository
	metrics *telemetry.AppMetrics
}

func (h *countingHistory) Record(ctx context.Context, todo domain.Todo, completedAt time.Time) (domain.HistoryEntry, bool, error) {
	entry, added, err := h.HistoryRepository.Record(ctx, todo, completedAt)

	if err == nil && added && h.metrics != nil {
		h.metrics.RecordHistoryEntry(ctx)
	}

	return entry, added, err
}
