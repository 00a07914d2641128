package advice

import (
	"testing"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestAlertFor(t *testing.T) {
	storm := weather.Snapshot{Condition: weather.ConditionThunderstorm, WindSpeedMS: 20}
	if a := AlertFor(storm); a == nil || a.Level != AlertWarning || a.Title != "Severe Thunderstorm Warning" {
		t.Fatalf("expected thunderstorm warning, got %+v", a)
	}

	// 14 m/s is 50.4 km/h.
	windy := weather.Snapshot{Condition: weather.ConditionClear, WindSpeedMS: 14}
	if a := AlertFor(windy); a == nil || a.Level != AlertDanger || a.Title != "High Wind Advisory" {
		t.Fatalf("expected wind advisory, got %+v", a)
	}

	// 13.8 m/s is 49.68 km/h.
	breezy := weather.Snapshot{Condition: weather.ConditionClear, WindSpeedMS: 13.8}
	if a := AlertFor(breezy); a != nil {
		t.Fatalf("expected no alert, got %+v", a)
	}
}
