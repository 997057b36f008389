package http

import (
	"serenity/internal/adapter/http/helper"
	"serenity/internal/adapter/http/middleware"
	"serenity/internal/adapter/logging"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func SetupRouter(container *Container, metrics *telemetry.AppMetrics, logger *logging.LokiLogger, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.NewHTTPSEnforcer(cfg.EnforceHTTPS, logger.Zap()).HTTPSMiddleware())
	router.Use(middleware.CorsMiddleware(cfg.FrontendURL))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))

	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}

	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitConfigs, logger.Zap(), metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, "Route not found")
	})

	api := router.Group("/api")

	setupPublicRoutes(api, container)
	setupProtectedRoutes(api, container)

	return router
}

func setupPublicRoutes(api *gin.RouterGroup, container *Container) {
	api.GET("/health", container.HealthHandler.Health)
	api.POST("/auth/register", container.AuthHandler.Register)
	api.POST("/auth/login", container.AuthHandler.Login)
}

func setupProtectedRoutes(api *gin.RouterGroup, container *Container) {
	protected := api.Group("/")
	protected.Use(middleware.GinJwtMiddleware(container.Tokens, container.UserRepo))
	{
		protected.POST("/auth/logout", container.AuthHandler.Logout)
		protected.GET("/auth/me", container.AuthHandler.Me)

		protected.GET("/todos", container.TodoHandler.List)
		protected.POST("/todos", container.TodoHandler.Create)
		protected.GET("/todos/stats", container.TodoHandler.Stats)
		protected.GET("/todos/history", container.TodoHandler.History)
		protected.GET("/todos/history/stats", container.TodoHandler.HistoryStats)
		protected.PUT("/todos/:id", container.TodoHandler.Update)
		protected.DELETE("/todos/:id", container.TodoHandler.Delete)

		protected.GET("/weather/:city", container.WeatherHandler.Current)
		protected.GET("/weather/:city/forecast", container.WeatherHandler.Forecast)

		protected.GET("/quotes", container.QuoteHandler.All)
		protected.GET("/quotes/random", container.QuoteHandler.Random)
		protected.GET("/quotes/category/:category", container.QuoteHandler.ByCategory)

		protected.GET("/users/profile", container.UserHandler.Profile)
		protected.PUT("/users/profile", container.UserHandler.UpdateProfile)
		protected.PUT("/users/preferences", container.UserHandler.UpdatePreferences)
	}
}
