// Package advice derives clothing, activity, travel and mood guidance from
// a canonical weather snapshot. Every rule table is an ordered list of
// (predicate, effect) pairs evaluated top to bottom.
package advice

import (
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// RecommendationSet is the guidance derived from one snapshot.
type RecommendationSet struct {
	Clothing   []string `json:"clothing"`
	Activities []string `json:"activities"`
	Travel     string   `json:"travel"`
	Mood       string   `json:"mood"`
	Lifestyle  string   `json:"lifestyle"`
	// LowConfidence is set when the snapshot's condition, humidity and
	// pressure are fill values, so the advice may not match the sky.
	LowConfidence bool `json:"lowConfidence"`
}

type predicate func(weather.Snapshot) bool

func tempBelow(limit float64) predicate {
	return func(s weather.Snapshot) bool { return s.TemperatureC < limit }
}

func tempAbove(limit float64) predicate {
	return func(s weather.Snapshot) bool { return s.TemperatureC > limit }
}

func conditionIn(set ...weather.Condition) predicate {
	return func(s weather.Snapshot) bool { return s.Condition.In(set...) }
}

func always(weather.Snapshot) bool { return true }

type listRule struct {
	match predicate
	items []string
}

// Temperature bands are half-open; the first match wins.
var clothingBands = []listRule{
	{tempBelow(5), []string{"Heavy coat", "Gloves", "Scarf", "Thermal wear"}},
	{tempBelow(15), []string{"Jacket or hoodie", "Jeans", "Layered clothing"}},
	{tempBelow(25), []string{"T-shirt", "Light trousers", "Comfortable shoes"}},
	{always, []string{"Shorts", "Tank top", "Breathable fabric", "Sunglasses", "Hat"}},
}

// Condition additions are cumulative on top of the band.
var clothingAdditions = []listRule{
	{conditionIn(weather.ConditionRain, weather.ConditionDrizzle, weather.ConditionThunderstorm), []string{"Umbrella", "Raincoat", "Waterproof shoes"}},
	{conditionIn(weather.ConditionSnow), []string{"Snow boots", "Waterproof gear"}},
}

type activityRule struct {
	match      predicate
	activities []string
	mood       string
}

// Precipitation is checked before temperature.
var activityRules = []activityRule{
	{
		conditionIn(weather.ConditionRain, weather.ConditionSnow, weather.ConditionThunderstorm),
		[]string{"Visit a museum", "Watch a movie marathon", "Read a book", "Try a new recipe"},
		"Cozy & Relaxed",
	},
	{
		func(s weather.Snapshot) bool {
			return s.Condition == weather.ConditionClear && s.TemperatureC > 15 && s.TemperatureC < 30
		},
		[]string{"Go for a hike", "Have a picnic in the park", "Ride a bike", "Play outdoor sports"},
		"Energetic & Happy",
	},
	{
		conditionIn(weather.ConditionClouds),
		[]string{"Take a walk in the park", "Visit a café", "Go sightseeing"},
		"Calm & Reflective",
	},
	{
		tempAbove(30),
		[]string{"Go swimming", "Visit an air-conditioned mall", "Stay hydrated indoors"},
		"Chill & Cool",
	},
	{
		always,
		[]string{"Light jog", "Visit a local coffee shop", "Practice yoga"},
		"Balanced",
	},
}

type textRule struct {
	match predicate
	text  string
}

const severeWindMS = 20

var travelRules = []textRule{
	{
		func(s weather.Snapshot) bool {
			return s.Condition.In(weather.ConditionThunderstorm, weather.ConditionSnow) || s.WindSpeedMS > severeWindMS
		},
		"Severe weather alert! Avoid unnecessary travel and postpone long drives.",
	},
	{
		conditionIn(weather.ConditionRain, weather.ConditionMist, weather.ConditionFog),
		"Roads might be slippery and visibility reduced. Drive cautiously and keep a safe distance.",
	},
	{
		tempAbove(35),
		"Extreme heat. Check your vehicle's cooling system and carry extra water.",
	},
	{
		always,
		"Skies look favorable. Good conditions for a road trip or visiting nearby attractions.",
	},
}

var lifestyleRules = []textRule{
	{
		func(s weather.Snapshot) bool { return s.HumidityPct > 80 },
		"High humidity might feel sticky. Keep your skin hydrated and stay in well-ventilated areas.",
	},
	{
		tempBelow(5),
		"Cold weather! A warm cup of hot chocolate or soup will help maintain your body heat.",
	},
	{
		always,
		"The weather seems balanced. A great time to catch up on garden work or balcony relaxation.",
	},
}

// Recommend derives a RecommendationSet from s. It is deterministic and
// never mutates shared state; the returned slices are fresh copies.
func Recommend(s weather.Snapshot) RecommendationSet {
	activities, mood := activitiesFor(s)
	return RecommendationSet{
		Clothing:      clothingFor(s),
		Activities:    activities,
		Travel:        firstText(travelRules, s),
		Mood:          mood,
		Lifestyle:     firstText(lifestyleRules, s),
		LowConfidence: s.Synthetic,
	}
}

func clothingFor(s weather.Snapshot) []string {
	var out []string
	for _, band := range clothingBands {
		if band.match(s) {
			out = append(out, band.items...)
			break
		}
	}
	for _, add := range clothingAdditions {
		if add.match(s) {
			out = append(out, add.items...)
		}
	}
	return out
}

func activitiesFor(s weather.Snapshot) ([]string, string) {
	for _, r := range activityRules {
		if r.match(s) {
			return append([]string(nil), r.activities...), r.mood
		}
	}
	return nil, ""
}

func firstText(rules []textRule, s weather.Snapshot) string {
	for _, r := range rules {
		if r.match(s) {
			return r.text
		}
	}
	return ""
}
