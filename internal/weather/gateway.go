package weather

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// Fill values for fields the fallback provider cannot supply.
const (
	fallbackHumidityPct   = 50
	fallbackPressureHPa   = 1013
	fallbackCondition     = ConditionClear
	fallbackDescription   = "Clear sky"
	fallbackIconCode      = "01d"
	fallbackTempSpreadC   = 2.0
	coordsPlaceholderName = "Current Location"
)

const (
	// SearchLimit caps place-search results from either provider.
	SearchLimit = 5
	// maxFallbackForecast mirrors the primary's 5 days of 3-hour steps.
	maxFallbackForecast = 40
)

// Gateway reconciles the primary and fallback providers into the canonical
// model. It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	primary  PrimaryProvider
	fallback FallbackProvider
	namer    PlaceNamer
	rec      Recorder
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRecorder reports provider calls, fallbacks and degraded results to r.
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) {
		if r != nil {
			g.rec = r
		}
	}
}

// WithPlaceNamer names coordinate-only fallback lookups through n.
func WithPlaceNamer(n PlaceNamer) Option {
	return func(g *Gateway) {
		g.namer = n
	}
}

// NewGateway creates a Gateway. fallback may be nil, in which case no
// fallback is ever attempted.
func NewGateway(primary PrimaryProvider, fallback FallbackProvider, opts ...Option) *Gateway {
	g := &Gateway{
		primary:  primary,
		fallback: fallback,
		rec:      nopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CurrentByName returns current weather for a place name. Only an
// authentication failure of the primary provider triggers the fallback.
func (g *Gateway) CurrentByName(ctx context.Context, name string) (Snapshot, error) {
	snap, err := g.primary.CurrentByName(ctx, name)
	g.rec.ProviderCall(g.primary.Name(), "current", err)

	switch classify(err) {
	case outcomeOK:
		return snap, nil
	case outcomeFailed:
		return Snapshot{}, err
	}
	if !g.canFallback(ctx) {
		return Snapshot{}, err
	}

	log.Printf("WARN: %s rejected credentials for %q; falling back to %s", g.primary.Name(), name, g.fallback.Name())
	g.rec.Fallback("current")

	snap, fbErr := g.currentByNameFallback(ctx, name)
	if fbErr != nil {
		return Snapshot{}, fallbackFailure(err, fbErr)
	}
	return snap, nil
}

// CurrentByCoords returns current weather for coordinates, with the same
// fallback rule as CurrentByName.
func (g *Gateway) CurrentByCoords(ctx context.Context, lat, lon float64) (Snapshot, error) {
	c := Coordinates{Lat: lat, Lon: lon}
	snap, err := g.primary.CurrentByCoords(ctx, c)
	g.rec.ProviderCall(g.primary.Name(), "current", err)

	switch classify(err) {
	case outcomeOK:
		return snap, nil
	case outcomeFailed:
		return Snapshot{}, err
	}
	if !g.canFallback(ctx) {
		return Snapshot{}, err
	}

	log.Printf("WARN: %s rejected credentials for %.4f,%.4f; falling back to %s", g.primary.Name(), lat, lon, g.fallback.Name())
	g.rec.Fallback("current")

	reading, fbErr := g.fallback.Current(ctx, c)
	g.rec.ProviderCall(g.fallback.Name(), "current", fbErr)
	if fbErr != nil {
		return Snapshot{}, fallbackFailure(err, fbErr)
	}

	snap = g.fromFallback(reading)
	snap.Place = coordsPlaceholderName
	if g.namer != nil {
		name, _, nameErr := g.namer.NameFor(ctx, c)
		switch {
		case nameErr != nil:
			log.Printf("WARN: reverse geocoding %.4f,%.4f failed: %v", lat, lon, nameErr)
		case name != "":
			snap.Place = name
		}
	}
	return snap, nil
}

// Forecast returns the forecast series for coordinates. It is best effort:
// any primary failure tries the fallback, and a double failure yields an
// empty list.
func (g *Gateway) Forecast(ctx context.Context, lat, lon float64) []ForecastSample {
	c := Coordinates{Lat: lat, Lon: lon}
	samples, err := g.primary.Forecast(ctx, c)
	g.rec.ProviderCall(g.primary.Name(), "forecast", err)
	if classify(err) == outcomeOK {
		if samples == nil {
			samples = []ForecastSample{}
		}
		return samples
	}

	log.Printf("WARN: %s forecast failed for %.4f,%.4f: %v", g.primary.Name(), lat, lon, err)
	if !g.canFallback(ctx) {
		g.rec.Degraded("forecast")
		return []ForecastSample{}
	}
	g.rec.Fallback("forecast")

	samples, err = g.fallback.HourlyForecast(ctx, c)
	g.rec.ProviderCall(g.fallback.Name(), "forecast", err)
	if err != nil {
		log.Printf("WARN: %s forecast fallback failed for %.4f,%.4f: %v", g.fallback.Name(), lat, lon, err)
		g.rec.Degraded("forecast")
		return []ForecastSample{}
	}

	if len(samples) > maxFallbackForecast {
		samples = samples[:maxFallbackForecast]
	}
	out := make([]ForecastSample, len(samples))
	for i, s := range samples {
		s.Condition = fallbackCondition
		s.IconCode = fallbackIconCode
		out[i] = s
	}
	return out
}

// AirQuality returns the air quality index for coordinates, or nil on any
// failure. There is no fallback and no retry.
func (g *Gateway) AirQuality(ctx context.Context, lat, lon float64) *AirQuality {
	aq, err := g.primary.AirQuality(ctx, Coordinates{Lat: lat, Lon: lon})
	g.rec.ProviderCall(g.primary.Name(), "air_quality", err)
	if err != nil {
		log.Printf("INFO: air quality unavailable for %.4f,%.4f: %v", lat, lon, err)
		g.rec.Degraded("air_quality")
		return nil
	}
	aq.Label = AQILabel(aq.Index)
	return &aq
}

// SearchPlaces returns up to SearchLimit places matching query.
func (g *Gateway) SearchPlaces(ctx context.Context, query string) ([]PlaceMatch, error) {
	matches, err := g.primary.SearchPlaces(ctx, query, SearchLimit)
	g.rec.ProviderCall(g.primary.Name(), "search", err)

	switch classify(err) {
	case outcomeOK:
		return capMatches(matches), nil
	case outcomeFailed:
		return nil, err
	}
	if !g.canFallback(ctx) {
		return nil, err
	}

	log.Printf("WARN: %s rejected credentials for search %q; falling back to %s", g.primary.Name(), query, g.fallback.Name())
	g.rec.Fallback("search")

	matches, err = g.fallback.Geocode(ctx, query, SearchLimit)
	g.rec.ProviderCall(g.fallback.Name(), "geocode", err)
	if err != nil {
		return nil, err
	}
	return capMatches(matches), nil
}

func (g *Gateway) canFallback(ctx context.Context) bool {
	return g.fallback != nil && ctx.Err() == nil
}

func (g *Gateway) currentByNameFallback(ctx context.Context, name string) (Snapshot, error) {
	matches, err := g.fallback.Geocode(ctx, common.BeforeComma(name), 1)
	g.rec.ProviderCall(g.fallback.Name(), "geocode", err)
	if err != nil {
		return Snapshot{}, err
	}
	if len(matches) == 0 {
		return Snapshot{}, &ProviderError{Provider: g.fallback.Name(), Op: "geocode", Kind: ErrNotFound}
	}

	m := matches[0]
	reading, err := g.fallback.Current(ctx, Coordinates{Lat: m.Lat, Lon: m.Lon})
	g.rec.ProviderCall(g.fallback.Name(), "current", err)
	if err != nil {
		return Snapshot{}, err
	}

	snap := g.fromFallback(reading)
	snap.Place = m.Name
	snap.CountryCode = m.Country
	return snap, nil
}

// fromFallback maps the fallback's minimal payload into the canonical shape.
// Condition, humidity and pressure are fill values, not observations.
func (g *Gateway) fromFallback(r FallbackReading) Snapshot {
	return Snapshot{
		Coordinates:  r.Coordinates,
		TemperatureC: r.TemperatureC,
		TempMinC:     r.TemperatureC - fallbackTempSpreadC,
		TempMaxC:     r.TemperatureC + fallbackTempSpreadC,
		HumidityPct:  fallbackHumidityPct,
		PressureHPa:  fallbackPressureHPa,
		WindSpeedMS:  r.WindSpeedMS,
		Condition:    fallbackCondition,
		Description:  fallbackDescription,
		IconCode:     fallbackIconCode,
		ObservedAt:   r.Time,
		Source:       g.fallback.Name(),
		Synthetic:    true,
	}
}

// fallbackFailure keeps a not-found answer from the fallback as is and
// otherwise surfaces the primary's authentication error.
func fallbackFailure(primaryErr, fallbackErr error) error {
	if errors.Is(fallbackErr, ErrNotFound) {
		return fallbackErr
	}
	return fmt.Errorf("%w (fallback: %v)", primaryErr, fallbackErr)
}

func capMatches(m []PlaceMatch) []PlaceMatch {
	if m == nil {
		return []PlaceMatch{}
	}
	if len(m) > SearchLimit {
		return m[:SearchLimit]
	}
	return m
}
