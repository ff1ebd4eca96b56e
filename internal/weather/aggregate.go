package weather

import "time"

const (
	// SamplesPerDay is the number of 3-hourly samples covering 24 hours.
	SamplesPerDay = int(24 * time.Hour / SampleInterval)

	// DisplayDays is how many daily entries the forecast panel shows.
	DisplayDays = 4
)

// DailySubset picks one sample per day from the window: indices 0, 8, 16, 24
// that exist, at most DisplayDays of them. The samples are not averaged.
func DailySubset(w ForecastWindow) []ForecastSample {
	out := make([]ForecastSample, 0, DisplayDays)
	for i := 0; i < len(w.Samples) && len(out) < DisplayDays; i += SamplesPerDay {
		out = append(out, w.Samples[i])
	}
	return out
}

// IsDark reports whether now falls outside the daylight span of c.
func IsDark(now time.Time, c CurrentConditions) bool {
	return now.Before(c.Sunrise) || now.After(c.Sunset)
}
