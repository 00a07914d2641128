package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func newOpenMeteoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("name") == "Atlantis" {
			_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
			return
		}
		if q.Get("count") != "1" || q.Get("format") != "json" {
			t.Errorf("unexpected geocoding query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":[{"name":"Paris","latitude":48.85341,"longitude":2.3488,"country_code":"FR","country":"France","admin1":"Île-de-France"}]}`))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("wind_speed_unit") != "ms" || q.Get("timeformat") != "unixtime" {
			t.Errorf("unexpected forecast query %s", r.URL.RawQuery)
		}
		if q.Get("current_weather") == "true" {
			if q.Get("latitude") == "0" {
				_, _ = w.Write([]byte(`{"latitude":0,"longitude":0}`))
				return
			}
			_, _ = w.Write([]byte(`{"latitude":48.86,"longitude":2.34,"current_weather":{"temperature":18.5,"windspeed":3.2,"winddirection":200,"weathercode":3,"time":1772359200}}`))
			return
		}
		if q.Get("timezone") != "auto" {
			t.Errorf("expected timezone=auto, got %q", q.Get("timezone"))
		}
		_, _ = w.Write([]byte(`{"utc_offset_seconds":3600,"timezone":"Europe/Paris","hourly":{
			"time":[1772362800,1772366400,1772370000],
			"temperature_2m":[9.1,10.4,11.0],
			"relative_humidity_2m":[80,null,70],
			"wind_speed_10m":[2.5,2.8]
		}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenMeteoGeocode(t *testing.T) {
	srv := newOpenMeteoServer(t)
	p := NewOpenMeteoProvider(srv.Client(), srv.URL+"/v1", srv.URL+"/v1", testBackoff)

	matches, err := p.Geocode(context.Background(), "Paris", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Name != "Paris" || m.Country != "FR" || m.Admin1 == nil || m.Lat != 48.85341 {
		t.Fatalf("unexpected match %+v", m)
	}
}

func TestOpenMeteoGeocodeNoResults(t *testing.T) {
	srv := newOpenMeteoServer(t)
	p := NewOpenMeteoProvider(srv.Client(), srv.URL+"/v1", srv.URL+"/v1", testBackoff)

	matches, err := p.Geocode(context.Background(), "Atlantis", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestOpenMeteoCurrent(t *testing.T) {
	srv := newOpenMeteoServer(t)
	p := NewOpenMeteoProvider(srv.Client(), srv.URL+"/v1", srv.URL+"/v1", testBackoff)

	reading, err := p.Current(context.Background(), weather.Coordinates{Lat: 48.85, Lon: 2.35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.TemperatureC != 18.5 || reading.WindSpeedMS != 3.2 {
		t.Fatalf("unexpected reading %+v", reading)
	}
	if reading.Coordinates.Lat != 48.86 || !reading.Time.Equal(time.Unix(1772359200, 0)) {
		t.Fatalf("unexpected coordinates or time %+v", reading)
	}
}

func TestOpenMeteoCurrentMissingBlock(t *testing.T) {
	srv := newOpenMeteoServer(t)
	p := NewOpenMeteoProvider(srv.Client(), srv.URL+"/v1", srv.URL+"/v1", testBackoff)

	if _, err := p.Current(context.Background(), weather.Coordinates{}); !errors.Is(err, weather.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestOpenMeteoHourlyForecast(t *testing.T) {
	srv := newOpenMeteoServer(t)
	p := NewOpenMeteoProvider(srv.Client(), srv.URL+"/v1", srv.URL+"/v1", testBackoff)

	samples, err := p.HourlyForecast(context.Background(), weather.Coordinates{Lat: 48.85, Lon: 2.35})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	// 1772362800 is 11:00 UTC, 12:00 on the place's clock.
	if got := samples[0].Time.Format("15:04:05"); got != "12:00:00" {
		t.Fatalf("expected local noon, got %s", got)
	}
	if samples[0].HumidityPct == nil || *samples[0].HumidityPct != 80 || samples[1].HumidityPct != nil {
		t.Fatalf("unexpected humidity series")
	}
	if samples[2].WindSpeedMS != nil {
		t.Fatalf("expected missing wind for the last sample")
	}
	if samples[1].TempMinC != 10.4 || samples[1].TempMaxC != 10.4 {
		t.Fatalf("expected min/max to mirror the temperature, got %+v", samples[1])
	}
	if samples[0].Condition != weather.ConditionUnknown {
		t.Fatalf("expected no condition, got %s", samples[0].Condition)
	}
}

func TestOpenMeteoUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":true,"reason":"upstream down"}`))
	}))
	t.Cleanup(srv.Close)

	p := NewOpenMeteoProvider(srv.Client(), srv.URL, srv.URL, testBackoff)
	_, err := p.HourlyForecast(context.Background(), weather.Coordinates{})
	if !errors.Is(err, weather.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if !strings.Contains(err.Error(), "upstream down") {
		t.Fatalf("expected the provider's reason in the error, got %v", err)
	}
}
