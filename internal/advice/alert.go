package advice

import (
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// AlertLevel grades an Alert.
type AlertLevel string

const (
	AlertWarning AlertLevel = "warning"
	AlertDanger  AlertLevel = "danger"
)

// Alert is a banner-worthy weather warning.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// highWindKmh is the gust threshold for the wind advisory.
const highWindKmh = 50

// AlertFor returns the warning for s, or nil when conditions are calm.
// Thunderstorms take precedence over wind.
func AlertFor(s weather.Snapshot) *Alert {
	switch {
	case s.Condition == weather.ConditionThunderstorm:
		return &Alert{
			Level:   AlertWarning,
			Title:   "Severe Thunderstorm Warning",
			Message: "Heavy rain and lightning detected in your area. Seek shelter immediately.",
		}
	case s.WindSpeedMS*3.6 > highWindKmh:
		return &Alert{
			Level:   AlertDanger,
			Title:   "High Wind Advisory",
			Message: "Dangerous wind gusts detected. Secure loose outdoor objects.",
		}
	default:
		return nil
	}
}
