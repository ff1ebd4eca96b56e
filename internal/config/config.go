package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Geolocation modes for the server-side device locator.
const (
	GeoModeIP     = "ip"
	GeoModeStatic = "static"
	GeoModeOff    = "off"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	Lang               string
	Units              string
	SuggestionLimit    int

	MinQueryLength int
	DebounceDelay  time.Duration
	ThemeInterval  time.Duration
	HTTPTimeout    time.Duration

	// Session retention.
	SessionMaxAge        time.Duration
	SessionMax           int
	SessionSweepInterval time.Duration

	// Device position used to bootstrap sessions that don't send their own.
	GeoMode  string
	GeoLat   float64
	GeoLon   float64
	GeoIPURL string

	RateLimitRPS   float64
	RateLimitBurst int

	Port      string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found or error loading it", slog.Any("error", err))
	}
	cfg := &AppConfig{}
	var err error

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	cfg.Lang = getenvDefault("WEATHER_LANG", "pt_br")
	cfg.Units = getenvDefault("WEATHER_UNITS", "metric")
	cfg.SuggestionLimit = getenvInt("SUGGESTION_LIMIT", 5)
	cfg.MinQueryLength = getenvInt("MIN_QUERY_LENGTH", 2)
	cfg.SessionMax = getenvInt("SESSION_MAX", 1000)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 40)

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"DEBOUNCE_DELAY", "300ms", &cfg.DebounceDelay},
		{"THEME_INTERVAL", "1s", &cfg.ThemeInterval},
		{"HTTP_TIMEOUT", "10s", &cfg.HTTPTimeout},
		{"SESSION_MAX_AGE", "30m", &cfg.SessionMaxAge},
		{"SESSION_SWEEP_INTERVAL", "1m", &cfg.SessionSweepInterval},
	}
	for _, d := range durations {
		if *d.dst, err = getenvDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	if cfg.RateLimitRPS, err = getenvFloat("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}

	if err := loadGeo(cfg); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))
	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func loadGeo(cfg *AppConfig) error {
	cfg.GeoMode = strings.ToLower(getenvDefault("GEO_MODE", GeoModeIP))
	cfg.GeoIPURL = os.Getenv("GEO_IP_URL")

	switch cfg.GeoMode {
	case GeoModeIP, GeoModeOff:
		return nil
	case GeoModeStatic:
		lat, err := getenvFloat("GEO_LAT", 0)
		if err != nil {
			return err
		}
		lon, err := getenvFloat("GEO_LON", 0)
		if err != nil {
			return err
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return fmt.Errorf("GEO_LAT/GEO_LON out of range: %f,%f", lat, lon)
		}
		cfg.GeoLat, cfg.GeoLon = lat, lon
		return nil
	default:
		return fmt.Errorf("invalid GEO_MODE %q (want ip, static or off)", cfg.GeoMode)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
