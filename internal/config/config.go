package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey     string
	OpenWeatherBaseURL    string
	OpenMeteoBaseURL      string
	OpenMeteoGeocodingURL string
	GoogleGeocoderAPIKey  string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration
	// ProviderMaxRetries is the number of repeated attempts per provider
	// call. Zero keeps the single-attempt behaviour.
	ProviderMaxRetries int

	// FetchInterval controls how often tracked locations are observed.
	FetchInterval time.Duration

	// Locations to observe.
	Locations []weather.Location

	// Observation store retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	// Redis backs the observation store when RedisAddr is set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string
}

// Load reads configuration from the environment, after an optional .env
// file, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com/v1")
	cfg.OpenMeteoGeocodingURL = getenvDefault("OPENMETEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxRetries, err = getenvInt("PROVIDER_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxRetries < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_MAX_RETRIES: must not be negative")
	}

	// Scheduler interval: default 15 minutes.
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	// Store retention.
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 96); err != nil { // roughly 24h at 15-minute intervals
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := loadTrackedLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// loadTrackedLocations pairs WEATHER_LOCATION_CITY and
// WEATHER_LOCATION_COUNTRY entries positionally. Countries may be omitted
// entirely.
func loadTrackedLocations() ([]weather.Location, error) {
	city := strings.TrimSpace(os.Getenv("WEATHER_LOCATION_CITY"))
	if city == "" {
		return nil, nil
	}
	cities := strings.Split(city, ",")

	var countries []string
	if country := strings.TrimSpace(os.Getenv("WEATHER_LOCATION_COUNTRY")); country != "" {
		countries = strings.Split(country, ",")
		if len(cities) != len(countries) {
			return nil, fmt.Errorf("number of cities and countries must be the same")
		}
	}

	var locs []weather.Location
	for i := range cities {
		loc := weather.Location{City: strings.TrimSpace(cities[i])}
		if countries != nil {
			loc.Country = strings.TrimSpace(countries[i])
		}
		if loc.City == "" {
			return nil, fmt.Errorf("empty city at position %d in WEATHER_LOCATION_CITY", i+1)
		}
		locs = append(locs, loc)
	}

	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
