package forecast

import (
	"reflect"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// threeHourly builds n samples three hours apart starting at start.
func threeHourly(start time.Time, n int) []weather.ForecastSample {
	samples := make([]weather.ForecastSample, n)
	for i := range samples {
		samples[i] = weather.ForecastSample{
			Time:         start.Add(time.Duration(3*i) * time.Hour),
			TemperatureC: float64(i),
		}
	}
	return samples
}

func TestHourlyIsPrefix(t *testing.T) {
	samples := threeHourly(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 10)

	got := Hourly(samples)
	if len(got) != HourlyWindow {
		t.Fatalf("expected %d samples, got %d", HourlyWindow, len(got))
	}
	for i := range got {
		if !got[i].Time.Equal(samples[i].Time) {
			t.Fatalf("sample %d out of order", i)
		}
	}

	got[0].TemperatureC = 99
	if samples[0].TemperatureC == 99 {
		t.Fatalf("Hourly must not alias its input")
	}
}

func TestHourlyShortSeries(t *testing.T) {
	samples := threeHourly(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 3)
	want := threeHourly(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 3)
	if got := Hourly(samples); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected the 3 samples unmodified and in order, got %+v", got)
	}
	if !reflect.DeepEqual(samples, want) {
		t.Fatalf("Hourly must not modify its input")
	}
	if got := Hourly(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

// TestDailySkipsDatesWithoutNoon verifies that a date with no exact-noon
// sample is left out of the daily view.
func TestDailySkipsDatesWithoutNoon(t *testing.T) {
	// Starts at 15:00, so the first date has no noon sample.
	samples := threeHourly(time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC), 16)

	got := Daily(samples)
	if len(got) != 2 {
		t.Fatalf("expected 2 daily entries, got %d: %+v", len(got), got)
	}
	if got[0].Date != "2026-03-02" || got[1].Date != "2026-03-03" {
		t.Fatalf("unexpected dates %s, %s", got[0].Date, got[1].Date)
	}
	for _, d := range got {
		if d.Sample.Time.Hour() != 12 {
			t.Fatalf("expected noon sample for %s, got %v", d.Date, d.Sample.Time)
		}
	}
}

func TestDailyFirstNoonWins(t *testing.T) {
	noon := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	samples := []weather.ForecastSample{
		{Time: noon, TemperatureC: 1},
		{Time: noon, TemperatureC: 2},
	}

	got := Daily(samples)
	if len(got) != 1 || got[0].Sample.TemperatureC != 1 {
		t.Fatalf("expected the first noon sample to win, got %+v", got)
	}
}

func TestDailyRequiresExactNoon(t *testing.T) {
	samples := []weather.ForecastSample{
		{Time: time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC)},
		{Time: time.Date(2026, 3, 1, 11, 59, 59, 0, time.UTC)},
	}
	if got := Daily(samples); len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}

func TestDailyReadsSampleZone(t *testing.T) {
	paris := time.FixedZone("Europe/Paris", 3600)
	// 12:00 in Paris is 11:00 UTC.
	samples := []weather.ForecastSample{
		{Time: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC).In(paris)},
		{Time: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).In(paris)},
	}

	got := Daily(samples)
	if len(got) != 1 || got[0].Sample.Time.UTC().Hour() != 11 {
		t.Fatalf("expected the local-noon sample, got %+v", got)
	}

	got = DailyIn(samples, time.UTC)
	if len(got) != 1 || got[0].Sample.Time.UTC().Hour() != 12 {
		t.Fatalf("expected the UTC-noon sample, got %+v", got)
	}
}

func TestDailyEmpty(t *testing.T) {
	if got := Daily(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}
