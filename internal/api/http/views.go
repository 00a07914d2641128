package httpapi

import (
	"math"
	"time"

	"github.com/i474232898/weather-dashboard/internal/advice"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// roundC rounds a temperature for display, half up: 2.5 -> 3, -2.5 -> -2.
func roundC(c float64) int {
	return int(math.Floor(c + 0.5))
}

func roundCPtr(c *float64) *int {
	if c == nil {
		return nil
	}
	v := roundC(*c)
	return &v
}

type snapshotView struct {
	Place        string     `json:"place"`
	Country      string     `json:"country"`
	Lat          float64    `json:"lat"`
	Lon          float64    `json:"lon"`
	Temperature  int        `json:"temperature"`
	FeelsLike    *int       `json:"feelsLike"`
	TempMin      int        `json:"tempMin"`
	TempMax      int        `json:"tempMax"`
	Humidity     int        `json:"humidity"`
	Pressure     int        `json:"pressure"`
	WindSpeedMS  float64    `json:"windSpeed"`
	WindKmh      float64    `json:"windKmh"`
	WindDeg      *int       `json:"windDeg"`
	Condition    string     `json:"condition"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	Night        bool       `json:"night"`
	ObservedAt   time.Time  `json:"observedAt"`
	Sunrise      *time.Time `json:"sunrise"`
	Sunset       *time.Time `json:"sunset"`
	VisibilityKm *float64   `json:"visibilityKm"`
	Source       string     `json:"source"`
	Synthetic    bool       `json:"synthetic"`
}

func newSnapshotView(s weather.Snapshot) snapshotView {
	v := snapshotView{
		Place:       s.Place,
		Country:     s.CountryCode,
		Lat:         s.Coordinates.Lat,
		Lon:         s.Coordinates.Lon,
		Temperature: roundC(s.TemperatureC),
		FeelsLike:   roundCPtr(s.FeelsLikeC),
		TempMin:     roundC(s.TempMinC),
		TempMax:     roundC(s.TempMaxC),
		Humidity:    s.HumidityPct,
		Pressure:    s.PressureHPa,
		WindSpeedMS: s.WindSpeedMS,
		WindKmh:     math.Round(s.WindSpeedMS*36) / 10,
		WindDeg:     s.WindDirectionDeg,
		Condition:   string(s.Condition),
		Description: s.Description,
		Icon:        s.IconCode,
		Night:       s.IsNight(),
		ObservedAt:  s.ObservedAt,
		Sunrise:     s.Sunrise,
		Sunset:      s.Sunset,
		Source:      s.Source,
		Synthetic:   s.Synthetic,
	}
	if s.VisibilityM != nil {
		km := math.Round(float64(*s.VisibilityM)/100) / 10
		v.VisibilityKm = &km
	}
	return v
}

type sampleView struct {
	Time        time.Time `json:"time"`
	Temperature int       `json:"temperature"`
	TempMin     int       `json:"tempMin"`
	TempMax     int       `json:"tempMax"`
	Condition   string    `json:"condition"`
	Icon        string    `json:"icon"`
	Humidity    *int      `json:"humidity"`
	WindSpeedMS *float64  `json:"windSpeed"`
}

func newSampleView(s weather.ForecastSample) sampleView {
	return sampleView{
		Time:        s.Time,
		Temperature: roundC(s.TemperatureC),
		TempMin:     roundC(s.TempMinC),
		TempMax:     roundC(s.TempMaxC),
		Condition:   string(s.Condition),
		Icon:        s.IconCode,
		Humidity:    s.HumidityPct,
		WindSpeedMS: s.WindSpeedMS,
	}
}

type dailyView struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	sampleView
}

type forecastView struct {
	Hourly []sampleView `json:"hourly"`
	Daily  []dailyView  `json:"daily"`
}

func newForecastView(hourly []weather.ForecastSample, daily []forecast.DailyEntry) forecastView {
	v := forecastView{
		Hourly: make([]sampleView, 0, len(hourly)),
		Daily:  make([]dailyView, 0, len(daily)),
	}
	for _, s := range hourly {
		v.Hourly = append(v.Hourly, newSampleView(s))
	}
	for _, d := range daily {
		v.Daily = append(v.Daily, dailyView{
			Date:       d.Date,
			Weekday:    d.Sample.Time.Weekday().String(),
			sampleView: newSampleView(d.Sample),
		})
	}
	return v
}

type adviceView struct {
	advice.RecommendationSet
	Alert *advice.Alert `json:"alert"`
}

type reportView struct {
	Current    snapshotView        `json:"current"`
	Forecast   forecastView        `json:"forecast"`
	AirQuality *weather.AirQuality `json:"airQuality"`
	Advice     adviceView          `json:"advice"`
}

func newReportView(r dashboard.Report) reportView {
	return reportView{
		Current:    newSnapshotView(r.Current),
		Forecast:   newForecastView(r.Hourly, r.Daily),
		AirQuality: r.AirQuality,
		Advice:     adviceView{RecommendationSet: r.Advice, Alert: r.Alert},
	}
}
