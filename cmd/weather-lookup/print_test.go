package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-lookup/internal/effects"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/widget"
)

func TestPrintView(t *testing.T) {
	s := widget.State{
		Current: &weather.CurrentConditions{
			Place:       "Recife",
			Description: "chuva moderada",
			Temperature: 27.4,
			Humidity:    88,
			FeelsLike:   30.2,
			Condition:   weather.ConditionRain,
		},
		Forecast: &weather.ForecastWindow{Samples: []weather.ForecastSample{{Temperature: 26, Condition: weather.ConditionRain}}},
	}

	var buf bytes.Buffer
	printView(&buf, s.View(effects.NewRenderer(1)), true)
	out := buf.String()

	assert.Contains(t, out, "Recife - chuva moderada")
	assert.Contains(t, out, "Temperatura: 27°C")
	assert.Contains(t, out, "Umidade:     88%")
	assert.Contains(t, out, "Sensação:    30°C")
	assert.Contains(t, out, "Próximos Dias")
}

func TestPrintViewErrorOnly(t *testing.T) {
	var buf bytes.Buffer
	printView(&buf, widget.State{Error: weather.MsgGeolocationFailed}.View(nil), false)
	assert.Equal(t, "! "+weather.MsgGeolocationFailed+"\n", buf.String())
}

func TestPrintSuggestions(t *testing.T) {
	var buf bytes.Buffer
	printSuggestions(&buf, []weather.LocationSuggestion{
		{Name: "Paris", State: "Ile-de-France", Country: "FR"},
		{Name: "Paris", Country: "US"},
	}, 1)
	assert.Equal(t, "  [0] Paris - Ile-de-France, FR\n> [1] Paris, US\n\n", buf.String())
}
