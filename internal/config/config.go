package config

import (
	"os"
	"strconv"
	"time"
)

// AppConfig holds the server settings.
type AppConfig struct {
	Port           string
	JWTSecret      string
	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherTTL     time.Duration
	FrontendURL    string

	// Telemetry
	ServiceName      string
	ServiceVersion   string
	TelemetryEnabled bool
	MetricsPort      string
	OTLPEndpoint     string
	LokiURL          string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	// HTTPS Enforcement
	EnforceHTTPS bool

	// Environment
	Environment string
}

// RateLimitConfig configuration for rate limiting, keyed by "METHOD path"
// or by path alone.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:           "3001",
		JWTSecret:      "your-secret-key-change-in-production",
		WeatherBaseURL: "https://api.openweathermap.org/data/2.5",
		WeatherTTL:     10 * time.Minute,
		FrontendURL:    "http://localhost:5173",

		ServiceName:      "serenity",
		ServiceVersion:   "1.0.0",
		TelemetryEnabled: false,
		MetricsPort:      "9091",
		OTLPEndpoint:     "localhost:4317",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /api/auth/register": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /api/auth/login": {
				Requests: 10,
				Window:   time.Minute,
			},
			"GET /api/todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /api/todos": {
				Requests: 30,
				Window:   time.Minute,
			},
			"/api/weather/:city": {
				Requests: 30,
				Window:   time.Minute,
			},
			"default": {
				Requests: 120,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS: false,
		Environment:  "development",
	}
}

// Load overlays the environment on top of the defaults.
func Load() *AppConfig {
	cfg := GetDefaultConfig()

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.WeatherAPIKey = getEnv("WEATHER_API_KEY", cfg.WeatherAPIKey)
	cfg.WeatherBaseURL = getEnv("WEATHER_BASE_URL", cfg.WeatherBaseURL)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.LokiURL = getEnv("LOKI_URL", cfg.LokiURL)
	cfg.TelemetryEnabled = getBool("TELEMETRY_ENABLED", cfg.TelemetryEnabled)
	cfg.RateLimitEnabled = getBool("RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
		cfg.EnforceHTTPS = true
	}

	cfg.EnforceHTTPS = getBool("ENFORCE_HTTPS", cfg.EnforceHTTPS)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}
