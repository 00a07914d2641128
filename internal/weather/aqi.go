package weather

var aqiLabels = [...]string{"Good", "Fair", "Moderate", "Poor", "Very Poor"}

// AQILabel maps the 1-5 air quality index to its label.
func AQILabel(index int) string {
	if index < 1 || index > len(aqiLabels) {
		return "Unknown"
	}
	return aqiLabels[index-1]
}
