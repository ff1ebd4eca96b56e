package weather

import (
	"time"
)

// Condition is the coarse weather category reported by the upstream API
// (e.g. "Clear", "Clouds", "Rain"). Categories we don't know about are kept verbatim.
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionSnow         Condition = "Snow"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionMist         Condition = "Mist"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocationSuggestion is one geocoding match for a free-text place name.
type LocationSuggestion struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Coordinates returns the suggestion's position.
func (s LocationSuggestion) Coordinates() Coordinates {
	return Coordinates{Lat: s.Lat, Lon: s.Lon}
}

// CurrentConditions is the latest observation for a position.
type CurrentConditions struct {
	Place       string    `json:"place"`
	Temperature float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
	FeelsLike   float64   `json:"feelsLikeC"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	ObservedAt  time.Time `json:"observedAt"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
}

// ForecastSample is a single 3-hourly forecast step.
type ForecastSample struct {
	Time        time.Time `json:"time"` // always UTC
	Temperature float64   `json:"temperatureC"`
	Condition   Condition `json:"condition"`
}

// ForecastWindow is the ordered list of forecast samples returned for a position.
// Samples are expected to be spaced SampleInterval apart, ascending by Time.
type ForecastWindow struct {
	Samples []ForecastSample `json:"samples"`
}

// SampleInterval is the spacing of upstream forecast samples.
const SampleInterval = 3 * time.Hour
