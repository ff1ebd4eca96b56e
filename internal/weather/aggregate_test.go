package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func window(n int) ForecastWindow {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	w := ForecastWindow{}
	for i := 0; i < n; i++ {
		w.Samples = append(w.Samples, ForecastSample{
			Time:        base.Add(time.Duration(i) * SampleInterval),
			Temperature: float64(i),
		})
	}
	return w
}

func TestDailySubset(t *testing.T) {
	tests := []struct {
		length int
		want   []float64
	}{
		{0, []float64{}},
		{1, []float64{0}},
		{8, []float64{0}},
		{9, []float64{0, 8}},
		{25, []float64{0, 8, 16, 24}},
		{40, []float64{0, 8, 16, 24}},
	}

	for _, tt := range tests {
		got := DailySubset(window(tt.length))
		temps := make([]float64, 0, len(got))
		for _, s := range got {
			temps = append(temps, s.Temperature)
		}
		assert.Equal(t, tt.want, temps, "length %d", tt.length)
	}
}

func TestIsDark(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := CurrentConditions{
		Sunrise: day.Add(6 * time.Hour),
		Sunset:  day.Add(18 * time.Hour),
	}

	assert.True(t, IsDark(day.Add(5*time.Hour), c))
	assert.False(t, IsDark(day.Add(6*time.Hour), c))
	assert.False(t, IsDark(day.Add(12*time.Hour), c))
	assert.False(t, IsDark(day.Add(18*time.Hour), c))
	assert.True(t, IsDark(day.Add(18*time.Hour+time.Second), c))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Paris - Île-de-France, FR", LocationSuggestion{Name: "Paris", State: "Île-de-France", Country: "FR"}.Label())
	assert.Equal(t, "Paris, US", LocationSuggestion{Name: "Paris", Country: "US"}.Label())

	assert.Equal(t, "22°C", FormatTemp(21.5))
	assert.Equal(t, "-3°C", FormatTemp(-2.6))
	assert.Equal(t, "-2°C", FormatTemp(-2.5))
	assert.Equal(t, "0°C", FormatTemp(-0.5))

	// 2024-03-01 was a Friday.
	assert.Equal(t, "sex.", WeekdayShort(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "dom.", WeekdayShort(time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)))
}
