package weather

import (
	"context"
	"strings"
	"time"

	"serenity/internal/core/domain"
	"serenity/internal/core/port"

	"github.com/patrickmn/go-cache"
)

const DefaultTTL = 10 * time.Minute

// CacheObserver is told about cache outcomes.
type CacheObserver interface {
	RecordCacheHit(ctx context.Context, cache string)
	RecordCacheMiss(ctx context.Context, cache string)
}

// CachedProvider memoizes current conditions per city. Forecasts and
// failures pass through uncached.
type CachedProvider struct {
	next     port.WeatherProvider
	cache    *cache.Cache
	observer CacheObserver
}

func NewCachedProvider(next port.WeatherProvider, ttl time.Duration, observer CacheObserver) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &CachedProvider{
		next:     next,
		cache:    cache.New(ttl, 2*ttl),
		observer: observer,
	}
}

func (p *CachedProvider) Current(ctx context.Context, city string) (domain.Weather, error) {
	key := strings.ToLower(strings.TrimSpace(city))

	if cached, found := p.cache.Get(key); found {
		p.hit(ctx)
		return cached.(domain.Weather), nil
	}

	p.miss(ctx)

	weather, err := p.next.Current(ctx, city)
	if err != nil {
		return domain.Weather{}, err
	}

	p.cache.SetDefault(key, weather)

	return weather, nil
}

func (p *CachedProvider) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	return p.next.Forecast(ctx, city)
}

func (p *CachedProvider) hit(ctx context.Context) {
	if p.observer != nil {
		p.observer.RecordCacheHit(ctx, "weather")
	}
}

func (p *CachedProvider) miss(ctx context.Context) {
	if p.observer != nil {
		p.observer.RecordCacheMiss(ctx, "weather")
	}
}
