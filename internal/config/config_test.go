package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"OPENWEATHER_API_KEY", "HTTP_TIMEOUT", "PROVIDER_MAX_RETRIES", "FETCH_INTERVAL",
		"STORE_MAX_HISTORY", "STORE_MAX_AGE", "REDIS_ADDR", "REDIS_DB", "PORT",
		"WEATHER_LOCATION_CITY", "WEATHER_LOCATION_COUNTRY", "OPENWEATHER_BASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.ProviderMaxRetries != 0 {
		t.Fatalf("unexpected client defaults: %v, %d", cfg.HTTPTimeout, cfg.ProviderMaxRetries)
	}
	if cfg.FetchInterval != 15*time.Minute || cfg.StoreMaxHistory != 96 || cfg.StoreMaxAge != 24*time.Hour {
		t.Fatalf("unexpected scheduling defaults: %+v", cfg)
	}
	if cfg.Port != "8080" || cfg.OpenWeatherBaseURL != "https://api.openweathermap.org" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Locations) != 0 {
		t.Fatalf("expected no tracked locations, got %v", cfg.Locations)
	}
}

func TestLoadTrackedLocations(t *testing.T) {
	t.Setenv("WEATHER_LOCATION_CITY", "Paris, Oslo")
	t.Setenv("WEATHER_LOCATION_COUNTRY", "FR,NO")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %v", cfg.Locations)
	}
	if cfg.Locations[1].City != "Oslo" || cfg.Locations[1].Country != "NO" {
		t.Fatalf("unexpected second location %+v", cfg.Locations[1])
	}
}

func TestLoadLocationsWithoutCountries(t *testing.T) {
	t.Setenv("WEATHER_LOCATION_CITY", "Paris,Oslo")
	t.Setenv("WEATHER_LOCATION_COUNTRY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Locations) != 2 || cfg.Locations[0].Country != "" {
		t.Fatalf("unexpected locations %v", cfg.Locations)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PROVIDER_MAX_RETRIES": "-1",
		"HTTP_TIMEOUT":         "soon",
		"STORE_MAX_HISTORY":    "many",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}

	t.Run("mismatched locations", func(t *testing.T) {
		t.Setenv("WEATHER_LOCATION_CITY", "Paris,Oslo")
		t.Setenv("WEATHER_LOCATION_COUNTRY", "FR")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for mismatched city and country counts")
		}
	})

	t.Run("empty city", func(t *testing.T) {
		t.Setenv("WEATHER_LOCATION_CITY", "Paris,,Oslo")
		t.Setenv("WEATHER_LOCATION_COUNTRY", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for an empty city")
		}
	})
}
