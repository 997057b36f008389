package service

import (
	"context"
	"strings"

	"serenity/internal/core/domain"
	"serenity/internal/core/port"
)

type WeatherService struct {
	provider port.WeatherProvider
}

func NewWeatherService(provider port.WeatherProvider) *WeatherService {
	return &WeatherService{provider: provider}
}

func (w *WeatherService) Current(ctx context.Context, city string) (domain.Weather, error) {
	if city = strings.TrimSpace(city); city == "" {
		return domain.Weather{}, domain.ErrCityRequired
	}

	return w.provider.Current(ctx, city)
}

func (w *WeatherService) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	if city = strings.TrimSpace(city); city == "" {
		return domain.Forecast{}, domain.ErrCityRequired
	}

	return w.provider.Forecast(ctx, city)
}
