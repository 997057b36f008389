package port

import (
	"context"

	"serenity/internal/core/domain"
)

// WeatherProvider fetches current conditions and the short-range forecast
// for a city. Unknown cities yield domain.ErrCityNotFound.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (domain.Weather, error)
	Forecast(ctx context.Context, city string) (domain.Forecast, error)
}

type WeatherService interface {
	Current(ctx context.Context, city string) (domain.Weather, error)
	Forecast(ctx context.Context, city string) (domain.Forecast, error)
}

type QuoteService interface {
	Random(ctx context.Context) domain.Quote
	All(ctx context.Context) []domain.Quote
	ByCategory(ctx context.Context, category string) domain.Quote
}
