package service

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"serenity/internal/core/domain"
)

type stubProvider struct {
	city string
}

func (p *stubProvider) Current(ctx context.Context, city string) (domain.Weather, error) {
	p.city = city
	return domain.Weather{City: city}, nil
}

func (p *stubProvider) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	p.city = city
	return domain.Forecast{City: city}, nil
}

func TestWeatherService_RequiresCity(t *testing.T) {
	RegisterTestingT(t)
	svc := NewWeatherService(&stubProvider{})

	_, err := svc.Current(context.Background(), " ")
	Expect(err).To(MatchError(domain.ErrCityRequired))

	_, err = svc.Forecast(context.Background(), "")
	Expect(err).To(MatchError(domain.ErrCityRequired))
}

func TestWeatherService_TrimsCity(t *testing.T) {
	RegisterTestingT(t)
	provider := &stubProvider{}
	svc := NewWeatherService(provider)

	weather, err := svc.Current(context.Background(), " Lisbon ")

	Expect(err).To(BeNil())
	Expect(weather.City).To(Equal("Lisbon"))
	Expect(provider.city).To(Equal("Lisbon"))
}

func TestQuoteService(t *testing.T) {
	RegisterTestingT(t)
	svc := NewQuoteService(nil)
	svc.pick = func(n int) int { return n - 1 }

	quote := svc.Random(context.Background())
	Expect(quote.Author).To(Equal("Franklin D. Roosevelt"))
	Expect(quote.Timestamp).ToNot(BeNil())

	Expect(svc.All(context.Background())).To(HaveLen(len(SampleQuotes)))

	categorized := svc.ByCategory(context.Background(), "focus")
	Expect(categorized.Category).To(Equal("focus"))
}
