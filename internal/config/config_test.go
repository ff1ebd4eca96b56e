package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "pt_br", cfg.Lang)
	assert.Equal(t, "metric", cfg.Units)
	assert.Equal(t, 5, cfg.SuggestionLimit)
	assert.Equal(t, 2, cfg.MinQueryLength)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, time.Second, cfg.ThemeInterval)
	assert.Equal(t, GeoModeIP, cfg.GeoMode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadStaticGeo(t *testing.T) {
	t.Setenv("GEO_MODE", "static")
	t.Setenv("GEO_LAT", "-8.05")
	t.Setenv("GEO_LON", "-34.9")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, -8.05, cfg.GeoLat)
	assert.Equal(t, -34.9, cfg.GeoLon)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad duration":  {"DEBOUNCE_DELAY", "soon"},
		"bad geo mode":  {"GEO_MODE", "gps"},
		"bad rate":      {"RATE_LIMIT_RPS", "fast"},
		"bad log level": {"LOG_LEVEL", "chatty"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsOutOfRangeStaticGeo(t *testing.T) {
	t.Setenv("GEO_MODE", "static")
	t.Setenv("GEO_LAT", "91")
	_, err := Load()
	assert.Error(t, err)
}
