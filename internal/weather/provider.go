package weather

import (
	"context"
	"time"
)

// PrimaryProvider is the keyed provider with the full condition taxonomy
// (OpenWeatherMap). Errors are *ProviderError values.
type PrimaryProvider interface {
	Name() string
	CurrentByName(ctx context.Context, name string) (Snapshot, error)
	CurrentByCoords(ctx context.Context, c Coordinates) (Snapshot, error)
	Forecast(ctx context.Context, c Coordinates) ([]ForecastSample, error)
	AirQuality(ctx context.Context, c Coordinates) (AirQuality, error)
	SearchPlaces(ctx context.Context, query string, limit int) ([]PlaceMatch, error)
}

// FallbackReading is the minimal current-weather payload of the fallback
// provider. It carries no condition, humidity or pressure.
type FallbackReading struct {
	Coordinates  Coordinates
	TemperatureC float64
	WindSpeedMS  float64
	Time         time.Time
}

// FallbackProvider is the keyless, coordinate-only provider (Open-Meteo).
type FallbackProvider interface {
	Name() string
	Geocode(ctx context.Context, name string, count int) ([]PlaceMatch, error)
	Current(ctx context.Context, c Coordinates) (FallbackReading, error)
	HourlyForecast(ctx context.Context, c Coordinates) ([]ForecastSample, error)
}

// PlaceNamer resolves a display name for coordinates. Optional.
type PlaceNamer interface {
	NameFor(ctx context.Context, c Coordinates) (name, country string, err error)
}

// Recorder receives gateway events for metrics. Optional.
type Recorder interface {
	ProviderCall(provider, op string, err error)
	Fallback(op string)
	Degraded(op string)
}

// Store is the contract the observation stores must satisfy.
type Store interface {
	SaveSnapshot(ctx context.Context, loc Location, snapshot Snapshot) error
	GetLatest(ctx context.Context, loc Location) (Snapshot, error)
	GetRange(ctx context.Context, loc Location, from, to time.Time) ([]Snapshot, error)
}

type nopRecorder struct{}

func (nopRecorder) ProviderCall(string, string, error) {}
func (nopRecorder) Fallback(string)                    {}
func (nopRecorder) Degraded(string)                    {}
