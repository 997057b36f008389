package syncer

import (
	"context"
	"errors"
	"time"

	"serenity/internal/core/domain"
	"serenity/internal/core/history"

	"go.uber.org/zap"
)

// ErrWeatherUnavailable is returned when there is neither a session nor a
// direct weather provider.
var ErrWeatherUnavailable = errors.New("weather is unavailable offline")

// Weather reads the conditions for city, or the preferred city when empty.
// Provider errors are returned as they are; no data is made up.
func (o *Orchestrator) Weather(ctx context.Context, city string) (domain.Weather, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	city = valueOr(city, o.state.City)

	var (
		weather domain.Weather
		err     error
	)

	switch {
	case o.useRemote():
		weather, err = o.remote.Weather(ctx, city)
		if err != nil {
			o.handleRemoteError(ctx, err)
		}
	case o.weather != nil:
		weather, err = o.weather.Current(ctx, city)
	default:
		err = ErrWeatherUnavailable
	}

	if err != nil {
		o.logger.Info("Weather lookup failed", zap.String("city", city), zap.Error(err))
	}

	return weather, err
}

func (o *Orchestrator) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	city = valueOr(city, o.state.City)

	switch {
	case o.useRemote():
		forecast, err := o.remote.Forecast(ctx, city)
		if err != nil {
			o.handleRemoteError(ctx, err)
		}

		return forecast, err
	case o.weather != nil:
		return o.weather.Forecast(ctx, city)
	default:
		return domain.Forecast{}, ErrWeatherUnavailable
	}
}

// Quote comes from the backend during a session and from the bundled list
// otherwise.
func (o *Orchestrator) Quote(ctx context.Context) (domain.Quote, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.useRemote() {
		return o.quotes.Random(ctx), nil
	}

	quote, err := o.remote.RandomQuote(ctx)
	if err != nil {
		o.handleRemoteError(ctx, err)
		o.logger.Info("Quote lookup failed", zap.Error(err))
	}

	return quote, err
}

func (o *Orchestrator) TodoStats() domain.TodoStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	return domain.SummarizeTodos(o.state.Todos)
}

func (o *Orchestrator) HistoryStats(now time.Time) domain.HistoryStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	return history.Summarize(o.state.History, now)
}

// HistoryByDay groups the log by local calendar day, most recent first.
func (o *Orchestrator) HistoryByDay(loc *time.Location) []domain.DayGroup {
	o.mu.Lock()
	defer o.mu.Unlock()

	return history.GroupByDay(o.state.History, loc)
}
