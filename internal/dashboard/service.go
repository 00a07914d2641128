package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/advice"
	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrNoStore is returned by the observation operations when the service was
// built without a store.
var ErrNoStore = errors.New("no observation store configured")

// Gateway is the subset of *weather.Gateway the dashboard relies on.
type Gateway interface {
	CurrentByName(ctx context.Context, name string) (weather.Snapshot, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (weather.Snapshot, error)
	Forecast(ctx context.Context, lat, lon float64) []weather.ForecastSample
	AirQuality(ctx context.Context, lat, lon float64) *weather.AirQuality
	SearchPlaces(ctx context.Context, query string) ([]weather.PlaceMatch, error)
}

// Report is everything the dashboard renders for one lookup.
type Report struct {
	Current    weather.Snapshot         `json:"current"`
	Hourly     []weather.ForecastSample `json:"hourly"`
	Daily      []forecast.DailyEntry    `json:"daily"`
	AirQuality *weather.AirQuality      `json:"airQuality"`
	Advice     advice.RecommendationSet `json:"advice"`
	Alert      *advice.Alert            `json:"alert"`
}

// Service orchestrates the gateway, the pure transforms and the observation store.
type Service struct {
	gateway Gateway
	store   weather.Store
}

// NewService creates a new Service.
func NewService(gateway Gateway, store weather.Store) *Service {
	return &Service{
		gateway: gateway,
		store:   store,
	}
}

// Gateway exposes the underlying gateway for single-kind lookups.
func (s *Service) Gateway() Gateway {
	return s.gateway
}

// ByName builds a report for a place name. Current-weather failures are
// returned; forecast and air quality degrade to empty and nil.
func (s *Service) ByName(ctx context.Context, name string) (Report, error) {
	current, err := s.gateway.CurrentByName(ctx, name)
	if err != nil {
		return Report{}, err
	}
	return s.complete(ctx, current), nil
}

// ByCoords builds a report for coordinates.
func (s *Service) ByCoords(ctx context.Context, lat, lon float64) (Report, error) {
	current, err := s.gateway.CurrentByCoords(ctx, lat, lon)
	if err != nil {
		return Report{}, err
	}
	return s.complete(ctx, current), nil
}

// complete fetches forecast and air quality concurrently at the resolved
// coordinates and applies the bucketizer and recommendation engine.
func (s *Service) complete(ctx context.Context, current weather.Snapshot) Report {
	var (
		wg      sync.WaitGroup
		samples []weather.ForecastSample
		aq      *weather.AirQuality
	)

	lat, lon := current.Coordinates.Lat, current.Coordinates.Lon

	wg.Add(2)
	go func() {
		defer wg.Done()
		samples = s.gateway.Forecast(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		aq = s.gateway.AirQuality(ctx, lat, lon)
	}()
	wg.Wait()

	return Report{
		Current:    current,
		Hourly:     forecast.Hourly(samples),
		Daily:      forecast.Daily(samples),
		AirQuality: aq,
		Advice:     advice.Recommend(current),
		Alert:      advice.AlertFor(current),
	}
}

// Observe fetches current weather for a tracked location and stores it.
func (s *Service) Observe(ctx context.Context, loc weather.Location) error {
	if s.store == nil {
		return ErrNoStore
	}

	snap, err := s.gateway.CurrentByName(ctx, loc.Query())
	if err != nil {
		return fmt.Errorf("observe %s: %w", loc.Key(), err)
	}
	if snap.ObservedAt.IsZero() {
		snap.ObservedAt = time.Now().UTC()
	}
	if snap.Synthetic {
		log.Printf("WARN: observation for %s came from %s with placeholder fields", loc.Key(), snap.Source)
	}
	return s.store.SaveSnapshot(ctx, loc, snap)
}

// Latest delegates to the underlying store.
func (s *Service) Latest(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	if s.store == nil {
		return weather.Snapshot{}, ErrNoStore
	}
	return s.store.GetLatest(ctx, loc)
}

// History delegates to the underlying store.
func (s *Service) History(ctx context.Context, loc weather.Location, from, to time.Time) ([]weather.Snapshot, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.GetRange(ctx, loc, from, to)
}

// Summary condenses the observations in [from, to].
func (s *Service) Summary(ctx context.Context, loc weather.Location, from, to time.Time) (weather.Summary, error) {
	if s.store == nil {
		return weather.Summary{}, ErrNoStore
	}
	snaps, err := s.store.GetRange(ctx, loc, from, to)
	if err != nil {
		return weather.Summary{}, err
	}
	return weather.Summarize(loc, snaps), nil
}
