package openweather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"

	geocodePath  = "/geo/1.0/direct"
	currentPath  = "/data/2.5/weather"
	forecastPath = "/data/2.5/forecast"

	forecastTimeLayout = "2006-01-02 15:04:05"
)

// Options configures the OpenWeatherMap client.
type Options struct {
	APIKey  string
	BaseURL string
	Units   string // "metric"
	Lang    string // "pt_br"
	Limit   int    // max geocoding results
}

// Client talks to the OpenWeatherMap geocoding, current-weather and 5-day forecast APIs.
// It implements weather.Geocoder and weather.Source. Geocoding and weather
// calls trip separate breakers so a weather outage leaves search usable.
type Client struct {
	opts           Options
	client         *http.Client
	geocodeCircuit *gobreaker.CircuitBreaker
	weatherCircuit *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Units == "" {
		opts.Units = "metric"
	}
	if opts.Lang == "" {
		opts.Lang = "pt_br"
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}

	return &Client{
		opts:           opts,
		client:         client,
		geocodeCircuit: NewCircuitBreaker("openweather-geocode"),
		weatherCircuit: NewCircuitBreaker("openweather-weather"),
	}
}

// Suggest returns up to Limit geocoding matches for query.
func (c *Client) Suggest(ctx context.Context, query string) ([]weather.LocationSuggestion, error) {
	if c.opts.APIKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(c.opts.Limit))
	values.Set("appid", c.opts.APIKey)

	var payload []struct {
		Name    string  `json:"name"`
		State   string  `json:"state"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := doJSON(ctx, c.client, c.geocodeCircuit, c.endpoint(geocodePath, values), &payload); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}

	out := make([]weather.LocationSuggestion, 0, len(payload))
	for _, p := range payload {
		out = append(out, weather.LocationSuggestion{
			Name:    p.Name,
			State:   p.State,
			Country: p.Country,
			Lat:     p.Lat,
			Lon:     p.Lon,
		})
	}
	return out, nil
}

// Current fetches the current conditions at a position.
func (c *Client) Current(ctx context.Context, at weather.Coordinates) (weather.CurrentConditions, error) {
	if c.opts.APIKey == "" {
		return weather.CurrentConditions{}, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		Name string `json:"name"`
		Dt   int64  `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			Humidity  float64 `json:"humidity"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Weather []conditionItem `json:"weather"`
		Sys     struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
	}
	if err := doJSON(ctx, c.client, c.weatherCircuit, c.endpoint(currentPath, c.positionValues(at)), &payload); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("current weather: %w", err)
	}

	cond, desc := mapOpenWeatherCondition(payload.Weather)

	return weather.CurrentConditions{
		Place:       payload.Name,
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		FeelsLike:   payload.Main.FeelsLike,
		Condition:   cond,
		Description: desc,
		ObservedAt:  time.Unix(payload.Dt, 0).UTC(),
		Sunrise:     time.Unix(payload.Sys.Sunrise, 0).UTC(),
		Sunset:      time.Unix(payload.Sys.Sunset, 0).UTC(),
	}, nil
}

// Forecast fetches the 3-hourly forecast list at a position.
func (c *Client) Forecast(ctx context.Context, at weather.Coordinates) (weather.ForecastWindow, error) {
	if c.opts.APIKey == "" {
		return weather.ForecastWindow{}, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		List []struct {
			Dt    int64  `json:"dt"`
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []conditionItem `json:"weather"`
		} `json:"list"`
	}
	if err := doJSON(ctx, c.client, c.weatherCircuit, c.endpoint(forecastPath, c.positionValues(at)), &payload); err != nil {
		return weather.ForecastWindow{}, fmt.Errorf("forecast: %w", err)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		ts, err := time.Parse(forecastTimeLayout, item.DtTxt)
		if err != nil {
			ts = time.Unix(item.Dt, 0)
		}
		cond, _ := mapOpenWeatherCondition(item.Weather)
		samples = append(samples, weather.ForecastSample{
			Time:        ts.UTC(),
			Temperature: item.Main.Temp,
			Condition:   cond,
		})
	}
	return weather.ForecastWindow{Samples: samples}, nil
}

type conditionItem struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// mapOpenWeatherCondition takes the primary condition; the API lists the most relevant first.
func mapOpenWeatherCondition(items []conditionItem) (weather.Condition, string) {
	if len(items) == 0 {
		return "", ""
	}
	return weather.Condition(items[0].Main), items[0].Description
}

func (c *Client) positionValues(at weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	values.Set("appid", c.opts.APIKey)
	values.Set("units", c.opts.Units)
	values.Set("lang", c.opts.Lang)
	return values
}

func (c *Client) endpoint(path string, values url.Values) string {
	return fmt.Sprintf("%s%s?%s", c.opts.BaseURL, path, values.Encode())
}
