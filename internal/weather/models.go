package weather

import (
	"strings"
	"time"
)

// Condition is the high-level weather group reported by a provider
// (OpenWeatherMap's "main" field). Values outside the constants below are
// passed through verbatim.
type Condition string

const (
	ConditionUnknown      Condition = ""
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionSnow         Condition = "Snow"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionHaze         Condition = "Haze"
)

// In reports whether c is one of the given conditions.
func (c Condition) In(set ...Condition) bool {
	for _, s := range set {
		if c == s {
			return true
		}
	}
	return false
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location represents a logical place tracked by the observer.
// City must be provided; Country is optional.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(l.City) + ":" + strings.ToLower(l.Country)
}

// Query returns the name query understood by the primary provider.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Snapshot is the canonical current-weather view every downstream consumer
// works from, independent of the provider that answered.
//
// TempMinC <= TemperatureC <= TempMaxC is not guaranteed.
type Snapshot struct {
	Place       string      `json:"place"`
	CountryCode string      `json:"countryCode"`
	Coordinates Coordinates `json:"coordinates"`

	TemperatureC float64  `json:"temperatureC"`
	FeelsLikeC   *float64 `json:"feelsLikeC"`
	TempMinC     float64  `json:"tempMinC"`
	TempMaxC     float64  `json:"tempMaxC"`

	HumidityPct int `json:"humidityPct"`
	PressureHPa int `json:"pressureHPa"`

	WindSpeedMS      float64 `json:"windSpeedMS"`
	WindDirectionDeg *int    `json:"windDirectionDeg"`

	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	IconCode    string    `json:"iconCode"`

	ObservedAt  time.Time  `json:"observedAt"`
	Sunrise     *time.Time `json:"sunrise"`
	Sunset      *time.Time `json:"sunset"`
	VisibilityM *int       `json:"visibilityM"`

	// Source names the provider that produced the snapshot.
	Source string `json:"source"`
	// Synthetic is set when condition, humidity and pressure are fill
	// values rather than observations.
	Synthetic bool `json:"synthetic"`
}

// IsNight reports whether the icon code carries the night marker.
func (s Snapshot) IsNight() bool {
	return strings.HasSuffix(s.IconCode, "n")
}

// ForecastSample is one time-stamped prediction point. Time keeps the zone
// of the provider's own clock, which the daily view reads.
type ForecastSample struct {
	Time         time.Time `json:"time"`
	TemperatureC float64   `json:"temperatureC"`
	TempMinC     float64   `json:"tempMinC"`
	TempMaxC     float64   `json:"tempMaxC"`
	Condition    Condition `json:"condition"`
	IconCode     string    `json:"iconCode"`
	HumidityPct  *int      `json:"humidityPct"`
	WindSpeedMS  *float64  `json:"windSpeedMS"`
}

// PlaceMatch is one place-search result.
type PlaceMatch struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Admin1  *string `json:"admin1"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// AirQuality is the primary provider's air pollution index.
type AirQuality struct {
	Index      int                `json:"aqi"`
	Label      string             `json:"label"`
	Components map[string]float64 `json:"components,omitempty"`
	MeasuredAt time.Time          `json:"measuredAt"`
}
