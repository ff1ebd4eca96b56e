package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/metrics"
	"github.com/i474232898/weather-lookup/internal/weather/openweather"
	"github.com/i474232898/weather-lookup/internal/widget"
)

// Dependencies holds everything the commands share.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Weather  *openweather.Client
	Locator  geo.Locator
}

func InitDependencies(cfg *config.AppConfig, logger *slog.Logger) *Dependencies {
	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := openweather.NewClient(httpClient, openweather.Options{
		APIKey:  cfg.OpenWeatherAPIKey,
		BaseURL: cfg.OpenWeatherBaseURL,
		Units:   cfg.Units,
		Lang:    cfg.Lang,
		Limit:   cfg.SuggestionLimit,
	})

	var locator geo.Locator
	switch cfg.GeoMode {
	case config.GeoModeStatic:
		locator = geo.Static{Lat: cfg.GeoLat, Lon: cfg.GeoLon}
	case config.GeoModeIP:
		locator = geo.NewIPLocator(httpClient, cfg.GeoIPURL)
	default:
		locator = geo.Unsupported{}
	}

	return &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics.New(reg),
		Weather:  client,
		Locator:  locator,
	}
}

// NewWidget builds an orchestrator bootstrapped from locator.
func (d *Dependencies) NewWidget(locator geo.Locator) *widget.Orchestrator {
	return widget.New(d.Weather, d.Weather, locator, widget.Options{
		MinQueryLength: d.Config.MinQueryLength,
		DebounceDelay:  d.Config.DebounceDelay,
		Logger:         d.Logger,
		Metrics:        d.Metrics,
	})
}

func newLogger(cfg *config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
