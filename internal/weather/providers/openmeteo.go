package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	DefaultOpenMeteoBaseURL      = "https://api.open-meteo.com/v1"
	DefaultOpenMeteoGeocodingURL = "https://geocoding-api.open-meteo.com/v1"
)

// OpenMeteoProvider implements weather.FallbackProvider for Open-Meteo.
// It needs no API key and only answers for coordinates, so names go through
// its geocoding service first.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	geocodingURL string
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL, geocodingURL string, backoff BackoffConfig) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	if geocodingURL == "" {
		geocodingURL = DefaultOpenMeteoGeocodingURL
	}
	return &OpenMeteoProvider{
		name:         "open-meteo",
		baseURL:      strings.TrimRight(baseURL, "/"),
		geocodingURL: strings.TrimRight(geocodingURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Geocode resolves a place name. PlaceMatch.Country carries the ISO country
// code so results line up with the primary provider's.
func (p *OpenMeteoProvider) Geocode(ctx context.Context, name string, count int) ([]weather.PlaceMatch, error) {
	values := url.Values{}
	values.Set("name", name)
	values.Set("count", strconv.Itoa(count))
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []struct {
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			CountryCode string  `json:"country_code"`
			Admin1      string  `json:"admin1"`
		} `json:"results"`
	}
	if err := p.get(ctx, "geocode", p.geocodingURL+"/search", values, &payload); err != nil {
		return nil, err
	}

	matches := make([]weather.PlaceMatch, 0, len(payload.Results))
	for _, r := range payload.Results {
		matches = append(matches, weather.PlaceMatch{
			Name:    r.Name,
			Country: r.CountryCode,
			Admin1:  optionalString(r.Admin1),
			Lat:     r.Latitude,
			Lon:     r.Longitude,
		})
	}
	return matches, nil
}

// Current returns Open-Meteo's current_weather block: temperature, wind
// speed and time only.
func (p *OpenMeteoProvider) Current(ctx context.Context, c weather.Coordinates) (weather.FallbackReading, error) {
	values := coordinateValues(c)
	values.Set("current_weather", "true")
	values.Set("wind_speed_unit", "ms")
	values.Set("timeformat", "unixtime")

	var payload struct {
		Latitude       float64 `json:"latitude"`
		Longitude      float64 `json:"longitude"`
		CurrentWeather *struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			Time        int64   `json:"time"`
		} `json:"current_weather"`
	}
	if err := p.get(ctx, "current", p.baseURL+"/forecast", values, &payload); err != nil {
		return weather.FallbackReading{}, err
	}
	if payload.CurrentWeather == nil {
		return weather.FallbackReading{}, &weather.ProviderError{
			Provider: p.name,
			Op:       "current",
			Kind:     weather.ErrMalformedResponse,
			Err:      fmt.Errorf("current_weather missing"),
		}
	}

	return weather.FallbackReading{
		Coordinates:  weather.Coordinates{Lat: payload.Latitude, Lon: payload.Longitude},
		TemperatureC: payload.CurrentWeather.Temperature,
		WindSpeedMS:  payload.CurrentWeather.WindSpeed,
		Time:         unixOrNow(payload.CurrentWeather.Time),
	}, nil
}

// HourlyForecast returns hourly samples on the place's own clock. Condition
// and icon are left empty: Open-Meteo's weather codes are not part of the
// canonical taxonomy.
func (p *OpenMeteoProvider) HourlyForecast(ctx context.Context, c weather.Coordinates) ([]weather.ForecastSample, error) {
	values := coordinateValues(c)
	values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m")
	values.Set("wind_speed_unit", "ms")
	values.Set("timezone", "auto")
	values.Set("timeformat", "unixtime")

	var payload struct {
		UTCOffsetSeconds int    `json:"utc_offset_seconds"`
		Timezone         string `json:"timezone"`
		Hourly           struct {
			Time          []int64    `json:"time"`
			Temperature2m []float64  `json:"temperature_2m"`
			Humidity2m    []*int     `json:"relative_humidity_2m"`
			WindSpeed10m  []*float64 `json:"wind_speed_10m"`
		} `json:"hourly"`
	}
	if err := p.get(ctx, "forecast", p.baseURL+"/forecast", values, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	if len(h.Temperature2m) < len(h.Time) {
		return nil, &weather.ProviderError{
			Provider: p.name,
			Op:       "forecast",
			Kind:     weather.ErrMalformedResponse,
			Err:      fmt.Errorf("hourly series length mismatch: %d times, %d temperatures", len(h.Time), len(h.Temperature2m)),
		}
	}

	zone := time.FixedZone(payload.Timezone, payload.UTCOffsetSeconds)
	samples := make([]weather.ForecastSample, 0, len(h.Time))
	for i, ts := range h.Time {
		temp := h.Temperature2m[i]
		s := weather.ForecastSample{
			Time:         time.Unix(ts, 0).In(zone),
			TemperatureC: temp,
			TempMinC:     temp,
			TempMaxC:     temp,
		}
		if i < len(h.Humidity2m) {
			s.HumidityPct = h.Humidity2m[i]
		}
		if i < len(h.WindSpeed10m) {
			s.WindSpeedMS = h.WindSpeed10m[i]
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func (p *OpenMeteoProvider) get(ctx context.Context, op, endpoint string, values url.Values, out any) error {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}
	return getJSON(ctx, p.name, op, p.httpCfg, p.circuit, buildRequest, out)
}

func coordinateValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return values
}
