package weather

import "time"

// Summary condenses a range of observed snapshots for one location.
type Summary struct {
	Location    Location  `json:"location"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Count       int       `json:"count"`
	AvgTempC    float64   `json:"avgTemperatureC"`
	MinTempC    float64   `json:"minTemperatureC"`
	MaxTempC    float64   `json:"maxTemperatureC"`
	AvgHumidity float64   `json:"avgHumidityPct"`
	AvgWindMS   float64   `json:"avgWindSpeedMS"`
	Condition   Condition `json:"prevailingCondition"`
	Sources     []string  `json:"sources"`
	Synthetic   int       `json:"syntheticCount"`
}

// Summarize combines snapshots into a Summary. Numeric fields are averaged
// over observed values; the prevailing condition is the most frequent one,
// ties going to the condition seen first. Synthetic snapshots count towards
// temperature and wind but not humidity or condition, since those are fill
// values.
func Summarize(loc Location, snapshots []Snapshot) Summary {
	sum := Summary{Location: loc, Sources: []string{}}
	if len(snapshots) == 0 {
		return sum
	}

	var (
		sumTemp     float64
		sumWind     float64
		sumHumidity float64
		observed    int
	)

	conditionCounts := make(map[Condition]int)
	var conditionOrder []Condition
	seenSources := make(map[string]bool)

	sum.MinTempC = snapshots[0].TemperatureC
	sum.MaxTempC = snapshots[0].TemperatureC
	sum.From = snapshots[0].ObservedAt
	sum.To = snapshots[0].ObservedAt

	for _, s := range snapshots {
		sumTemp += s.TemperatureC
		sumWind += s.WindSpeedMS

		if s.TemperatureC < sum.MinTempC {
			sum.MinTempC = s.TemperatureC
		}
		if s.TemperatureC > sum.MaxTempC {
			sum.MaxTempC = s.TemperatureC
		}
		if s.ObservedAt.Before(sum.From) {
			sum.From = s.ObservedAt
		}
		if s.ObservedAt.After(sum.To) {
			sum.To = s.ObservedAt
		}

		if s.Source != "" && !seenSources[s.Source] {
			seenSources[s.Source] = true
			sum.Sources = append(sum.Sources, s.Source)
		}

		if s.Synthetic {
			sum.Synthetic++
			continue
		}
		observed++
		sumHumidity += float64(s.HumidityPct)
		if _, ok := conditionCounts[s.Condition]; !ok {
			conditionOrder = append(conditionOrder, s.Condition)
		}
		conditionCounts[s.Condition]++
	}

	n := float64(len(snapshots))
	sum.Count = len(snapshots)
	sum.AvgTempC = sumTemp / n
	sum.AvgWindMS = sumWind / n
	if observed > 0 {
		sum.AvgHumidity = sumHumidity / float64(observed)
	}

	best := 0
	for _, cond := range conditionOrder {
		if conditionCounts[cond] > best {
			best = conditionCounts[cond]
			sum.Condition = cond
		}
	}

	return sum
}
