// Package forecast reduces a forecast series into the hourly and daily views
// shown by the dashboard.
package forecast

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// HourlyWindow is the number of leading samples in the hourly view.
	HourlyWindow = 8
	// ReferenceTime is the clock reading that selects a day's representative.
	ReferenceTime = "12:00:00"

	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// DailyEntry is the representative sample of one calendar date.
type DailyEntry struct {
	Date   string                 `json:"date"`
	Sample weather.ForecastSample `json:"sample"`
}

// Hourly returns the first HourlyWindow samples in their original order, or
// all of them if there are fewer. It is a prefix, not a time window.
func Hourly(samples []weather.ForecastSample) []weather.ForecastSample {
	n := len(samples)
	if n > HourlyWindow {
		n = HourlyWindow
	}
	out := make([]weather.ForecastSample, n)
	copy(out, samples[:n])
	return out
}

// Daily picks one sample per calendar date: the first whose clock, read in
// the sample's own zone, is exactly ReferenceTime. Dates without such a
// sample are left out rather than approximated.
//
// TODO: a date with no exact-noon sample (typically today after midday)
// disappears from the view; choosing the nearest sample instead would change
// the entry count callers see.
func Daily(samples []weather.ForecastSample) []DailyEntry {
	return DailyIn(samples, nil)
}

// DailyIn is Daily with the clock read in loc. A nil loc keeps each
// sample's own zone.
func DailyIn(samples []weather.ForecastSample, loc *time.Location) []DailyEntry {
	entries := []DailyEntry{}
	seen := make(map[string]bool)

	for _, s := range samples {
		t := s.Time
		if loc != nil {
			t = t.In(loc)
		}
		if t.Format(timeLayout) != ReferenceTime {
			continue
		}
		date := t.Format(dateLayout)
		if seen[date] {
			continue
		}
		seen[date] = true
		entries = append(entries, DailyEntry{Date: date, Sample: s})
	}
	return entries
}
