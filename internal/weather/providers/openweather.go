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

// DefaultOpenWeatherBaseURL is the OpenWeatherMap API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.PrimaryProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, backoff BackoffConfig) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrent struct {
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64  `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		TempMin   float64  `json:"temp_min"`
		TempMax   float64  `json:"temp_max"`
		Humidity  int      `json:"humidity"`
		Pressure  int      `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   *int    `json:"deg"`
	} `json:"wind"`
	Weather    []owmCondition `json:"weather"`
	Visibility *int           `json:"visibility"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

func (p *OpenWeatherProvider) CurrentByName(ctx context.Context, name string) (weather.Snapshot, error) {
	values := url.Values{}
	values.Set("q", name)
	return p.current(ctx, values)
}

func (p *OpenWeatherProvider) CurrentByCoords(ctx context.Context, c weather.Coordinates) (weather.Snapshot, error) {
	return p.current(ctx, coordValues(c))
}

func (p *OpenWeatherProvider) current(ctx context.Context, values url.Values) (weather.Snapshot, error) {
	var payload owmCurrent
	if err := p.get(ctx, "current", "/data/2.5/weather", values, &payload); err != nil {
		return weather.Snapshot{}, err
	}

	cond := firstCondition(payload.Weather)
	snap := weather.Snapshot{
		Place:            payload.Name,
		CountryCode:      payload.Sys.Country,
		Coordinates:      weather.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
		TemperatureC:     payload.Main.Temp,
		FeelsLikeC:       payload.Main.FeelsLike,
		TempMinC:         payload.Main.TempMin,
		TempMaxC:         payload.Main.TempMax,
		HumidityPct:      payload.Main.Humidity,
		PressureHPa:      payload.Main.Pressure,
		WindSpeedMS:      payload.Wind.Speed,
		WindDirectionDeg: payload.Wind.Deg,
		Condition:        weather.Condition(cond.Main),
		Description:      cond.Description,
		IconCode:         cond.Icon,
		ObservedAt:       unixOrNow(payload.Dt),
		Sunrise:          unixPtr(payload.Sys.Sunrise),
		Sunset:           unixPtr(payload.Sys.Sunset),
		VisibilityM:      payload.Visibility,
		Source:           p.name,
	}
	return snap, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, c weather.Coordinates) ([]weather.ForecastSample, error) {
	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				TempMin  float64 `json:"temp_min"`
				TempMax  float64 `json:"temp_max"`
				Humidity *int    `json:"humidity"`
			} `json:"main"`
			Weather []owmCondition `json:"weather"`
			Wind    struct {
				Speed *float64 `json:"speed"`
			} `json:"wind"`
			DtTxt string `json:"dt_txt"`
		} `json:"list"`
	}
	if err := p.get(ctx, "forecast", "/data/2.5/forecast", coordValues(c), &payload); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		cond := firstCondition(item.Weather)
		samples = append(samples, weather.ForecastSample{
			Time:         forecastTime(item.Dt, item.DtTxt),
			TemperatureC: item.Main.Temp,
			TempMinC:     item.Main.TempMin,
			TempMaxC:     item.Main.TempMax,
			Condition:    weather.Condition(cond.Main),
			IconCode:     cond.Icon,
			HumidityPct:  item.Main.Humidity,
			WindSpeedMS:  item.Wind.Speed,
		})
	}
	return samples, nil
}

func (p *OpenWeatherProvider) AirQuality(ctx context.Context, c weather.Coordinates) (weather.AirQuality, error) {
	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components map[string]float64 `json:"components"`
		} `json:"list"`
	}
	if err := p.get(ctx, "air_quality", "/data/2.5/air_pollution", coordValues(c), &payload); err != nil {
		return weather.AirQuality{}, err
	}
	if len(payload.List) == 0 {
		return weather.AirQuality{}, &weather.ProviderError{Provider: p.name, Op: "air_quality", Kind: weather.ErrNotFound}
	}

	item := payload.List[0]
	return weather.AirQuality{
		Index:      item.Main.AQI,
		Components: item.Components,
		MeasuredAt: unixOrNow(item.Dt),
	}, nil
}

func (p *OpenWeatherProvider) SearchPlaces(ctx context.Context, query string, limit int) ([]weather.PlaceMatch, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))

	var results []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		State   string  `json:"state"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := p.get(ctx, "search", "/geo/1.0/direct", values, &results); err != nil {
		return nil, err
	}

	matches := make([]weather.PlaceMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, weather.PlaceMatch{
			Name:    r.Name,
			Country: r.Country,
			Admin1:  optionalString(r.State),
			Lat:     r.Lat,
			Lon:     r.Lon,
		})
	}
	return matches, nil
}

// get issues a keyed, metric-unit GET. A missing key is reported as
// unauthorized without a network call, which is what the API would answer.
func (p *OpenWeatherProvider) get(ctx context.Context, op, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return &weather.ProviderError{
			Provider: p.name,
			Op:       op,
			Status:   http.StatusUnauthorized,
			Kind:     weather.ErrUnauthorized,
			Err:      fmt.Errorf("openweather api key is not configured"),
		}
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("appid", p.apiKey)
		q.Set("units", "metric")

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	cfg := p.httpCfg
	if op == "air_quality" {
		// Air quality is best effort and never retried.
		cfg.Backoff.MaxRetries = 0
	}
	return getJSON(ctx, p.name, op, cfg, p.circuit, buildRequest, out)
}

func coordValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return values
}

func firstCondition(items []owmCondition) owmCondition {
	if len(items) == 0 {
		return owmCondition{}
	}
	return items[0]
}

// forecastTime prefers the provider's dt_txt clock (UTC) and falls back to dt.
func forecastTime(dt int64, dtTxt string) time.Time {
	if dtTxt != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", dtTxt, time.UTC); err == nil {
			return t
		}
	}
	return time.Unix(dt, 0).UTC()
}

func unixOrNow(sec int64) time.Time {
	if sec == 0 {
		return time.Now().UTC()
	}
	return time.Unix(sec, 0).UTC()
}

func unixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
