package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"serenity/internal/core/domain"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	forecastItems  = 8
)

// OpenWeather talks to the OpenWeatherMap REST API in metric units.
type OpenWeather struct {
	baseURL string
	apiKey  string
	client  *http.Client
	now     func() time.Time
}

func NewOpenWeather(baseURL, apiKey string, timeout time.Duration) *OpenWeather {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &OpenWeather{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now: time.Now,
	}
}

type currentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main    mainPayload      `json:"main"`
	Weather []weatherPayload `json:"weather"`
	Wind    windPayload      `json:"wind"`
}

type forecastPayload struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
	List []struct {
		DtTxt   string           `json:"dt_txt"`
		Main    mainPayload      `json:"main"`
		Weather []weatherPayload `json:"weather"`
		Wind    windPayload      `json:"wind"`
	} `json:"list"`
}

type mainPayload struct {
	Temp     float64 `json:"temp"`
	Humidity int     `json:"humidity"`
}

type weatherPayload struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type windPayload struct {
	Speed float64 `json:"speed"`
}

func (o *OpenWeather) Current(ctx context.Context, city string) (domain.Weather, error) {
	var payload currentPayload

	if err := o.get(ctx, "weather", city, &payload); err != nil {
		return domain.Weather{}, err
	}

	description, icon := firstCondition(payload.Weather)

	return domain.Weather{
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: round(payload.Main.Temp),
		Description: description,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   kilometresPerHour(payload.Wind.Speed),
		Icon:        icon,
		Timestamp:   o.now(),
	}, nil
}

// Forecast returns the next 24 hours in 3 hour steps.
func (o *OpenWeather) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	var payload forecastPayload

	if err := o.get(ctx, "forecast", city, &payload); err != nil {
		return domain.Forecast{}, err
	}

	items := make([]domain.ForecastItem, 0, forecastItems)

	for _, item := range payload.List {
		if len(items) == forecastItems {
			break
		}

		description, icon := firstCondition(item.Weather)

		items = append(items, domain.ForecastItem{
			Date:        item.DtTxt,
			Temperature: round(item.Main.Temp),
			Description: description,
			Icon:        icon,
			Humidity:    item.Main.Humidity,
			WindSpeed:   kilometresPerHour(item.Wind.Speed),
		})
	}

	return domain.Forecast{
		City:     payload.City.Name,
		Country:  payload.City.Country,
		Forecast: items,
	}, nil
}

func (o *OpenWeather) get(ctx context.Context, resource, city string, out any) error {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", o.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/"+resource+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrCityNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("weather provider returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding weather response: %w", err)
	}

	return nil
}

func firstCondition(conditions []weatherPayload) (string, string) {
	if len(conditions) == 0 {
		return "", ""
	}

	return conditions[0].Description, conditions[0].Icon
}

func round(value float64) int {
	return int(math.Round(value))
}

func kilometresPerHour(metresPerSecond float64) int {
	return round(metresPerSecond * 3.6)
}
