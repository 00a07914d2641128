package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type fakeGateway struct {
	current    weather.Snapshot
	currentErr error
	samples    []weather.ForecastSample
	aq         *weather.AirQuality

	forecastCalls int32
	lastLat       float64
	lastName      string
}

func (g *fakeGateway) CurrentByName(_ context.Context, name string) (weather.Snapshot, error) {
	g.lastName = name
	return g.current, g.currentErr
}

func (g *fakeGateway) CurrentByCoords(context.Context, float64, float64) (weather.Snapshot, error) {
	return g.current, g.currentErr
}

func (g *fakeGateway) Forecast(_ context.Context, lat, _ float64) []weather.ForecastSample {
	atomic.AddInt32(&g.forecastCalls, 1)
	g.lastLat = lat
	return g.samples
}

func (g *fakeGateway) AirQuality(context.Context, float64, float64) *weather.AirQuality {
	return g.aq
}

func (g *fakeGateway) SearchPlaces(context.Context, string) ([]weather.PlaceMatch, error) {
	return []weather.PlaceMatch{}, nil
}

func noonSeries(start time.Time, n int) []weather.ForecastSample {
	samples := make([]weather.ForecastSample, n)
	for i := range samples {
		samples[i] = weather.ForecastSample{Time: start.Add(time.Duration(3*i) * time.Hour), TemperatureC: 10}
	}
	return samples
}

func TestByNameBuildsReport(t *testing.T) {
	gw := &fakeGateway{
		current: weather.Snapshot{
			Place:        "Paris",
			Coordinates:  weather.Coordinates{Lat: 48.85, Lon: 2.35},
			TemperatureC: 22,
			Condition:    weather.ConditionThunderstorm,
		},
		samples: noonSeries(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 40),
		aq:      &weather.AirQuality{Index: 2, Label: "Fair"},
	}
	svc := NewService(gw, nil)

	report, err := svc.ByName(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.lastLat != 48.85 {
		t.Fatalf("expected forecast at the resolved coordinates, got lat %v", gw.lastLat)
	}
	if len(report.Hourly) != 8 || len(report.Daily) != 5 {
		t.Fatalf("expected 8 hourly and 5 daily entries, got %d and %d", len(report.Hourly), len(report.Daily))
	}
	if report.AirQuality == nil || report.AirQuality.Label != "Fair" {
		t.Fatalf("unexpected air quality %+v", report.AirQuality)
	}
	if report.Advice.Mood != "Cozy & Relaxed" {
		t.Fatalf("unexpected mood %q", report.Advice.Mood)
	}
	if report.Alert == nil || report.Alert.Title != "Severe Thunderstorm Warning" {
		t.Fatalf("expected thunderstorm alert, got %+v", report.Alert)
	}
}

func TestByNameDegradesGracefully(t *testing.T) {
	gw := &fakeGateway{current: weather.Snapshot{Place: "Paris", TemperatureC: 10, Synthetic: true}, samples: []weather.ForecastSample{}}
	svc := NewService(gw, nil)

	report, err := svc.ByName(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Hourly) != 0 || len(report.Daily) != 0 || report.AirQuality != nil {
		t.Fatalf("expected empty forecast and no air quality, got %+v", report)
	}
	if !report.Advice.LowConfidence {
		t.Fatalf("expected low-confidence advice for a synthetic snapshot")
	}
}

func TestByCoordsPropagatesCurrentFailure(t *testing.T) {
	gw := &fakeGateway{currentErr: &weather.ProviderError{Kind: weather.ErrNotFound}}
	svc := NewService(gw, nil)

	if _, err := svc.ByCoords(context.Background(), 1, 2); !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if atomic.LoadInt32(&gw.forecastCalls) != 0 {
		t.Fatalf("expected no forecast call after a failed current lookup")
	}
}

func TestObserveStoresSnapshot(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{current: weather.Snapshot{Place: "Paris", TemperatureC: 12}}
	mem := store.NewMemoryStore(10, 0)
	svc := NewService(gw, mem)
	loc := weather.Location{City: "Paris", Country: "FR"}

	if err := svc.Observe(ctx, loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.lastName != "Paris,FR" {
		t.Fatalf("expected lookup by %q, got %q", "Paris,FR", gw.lastName)
	}

	latest, err := svc.Latest(ctx, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.TemperatureC != 12 || latest.ObservedAt.IsZero() {
		t.Fatalf("expected stored snapshot with an observation time, got %+v", latest)
	}

	summary, err := svc.Summary(ctx, loc, latest.ObservedAt.Add(-time.Minute), latest.ObservedAt.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Count != 1 || summary.AvgTempC != 12 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestObserveFailures(t *testing.T) {
	ctx := context.Background()
	loc := weather.Location{City: "Paris"}

	if err := NewService(&fakeGateway{}, nil).Observe(ctx, loc); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}

	gw := &fakeGateway{currentErr: &weather.ProviderError{Kind: weather.ErrNetwork}}
	mem := store.NewMemoryStore(10, 0)
	if err := NewService(gw, mem).Observe(ctx, loc); !errors.Is(err, weather.ErrNetwork) {
		t.Fatalf("expected wrapped ErrNetwork, got %v", err)
	}
	if _, err := mem.GetLatest(ctx, loc); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}
