package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/effects"
	"github.com/i474232898/weather-lookup/internal/weather"
)

func TestViewOfEmptyState(t *testing.T) {
	v := State{Error: weather.MsgGeolocationFailed}.View(effects.NewRenderer(1))

	assert.Nil(t, v.Current)
	assert.Empty(t, v.Forecast)
	assert.Empty(t, v.Suggestions)
	assert.True(t, v.Effects.Empty())
	assert.Equal(t, weather.MsgGeolocationFailed, v.Error)
}

func TestViewRendersPanelForecastAndEffects(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) // Friday
	fc := weather.ForecastWindow{}
	for i := 0; i < 40; i++ {
		fc.Samples = append(fc.Samples, weather.ForecastSample{
			Time:        base.Add(time.Duration(i) * weather.SampleInterval),
			Temperature: 20.4,
			Condition:   weather.ConditionClouds,
		})
	}

	s := State{
		Suggestions: []weather.LocationSuggestion{parisFR, {Name: "Paris", Country: "US"}},
		Current: &weather.CurrentConditions{
			Place:       "Paris",
			Temperature: 9.5,
			Humidity:    81,
			FeelsLike:   7.2,
			Condition:   weather.ConditionThunderstorm,
			Description: "trovoada",
		},
		Forecast: &fc,
		Dark:     true,
	}

	v := s.View(effects.NewRenderer(7))

	require.Len(t, v.Suggestions, 2)
	assert.Equal(t, "Paris - Ile-de-France, FR", v.Suggestions[0].Label)
	assert.Equal(t, 1, v.Suggestions[1].Index)
	assert.Equal(t, "Paris, US", v.Suggestions[1].Label)

	require.NotNil(t, v.Current)
	assert.Equal(t, "10°C", v.Current.Temperature)
	assert.Equal(t, "81%", v.Current.Humidity)
	assert.Equal(t, "7°C", v.Current.FeelsLike)

	require.Len(t, v.Forecast, 4)
	assert.Equal(t, []string{"sex.", "sáb.", "dom.", "seg."}, []string{
		v.Forecast[0].Weekday, v.Forecast[1].Weekday, v.Forecast[2].Weekday, v.Forecast[3].Weekday,
	})
	assert.Equal(t, "20°C", v.Forecast[0].Temperature)

	assert.True(t, v.Effects.Flash)
	assert.True(t, v.Effects.Dark)
	require.Len(t, v.Effects.Layers, 1)
	assert.Len(t, v.Effects.Layers[0].Particles, effects.ParticleCount)
}
