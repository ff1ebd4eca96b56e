// Package geo provides device-position sources used to bootstrap a lookup.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	// ErrUnsupported is returned when no position source is available.
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrPermissionDenied is returned when the user refused to share a position.
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrUnavailable is returned when a position source failed to produce a fix.
	ErrUnavailable = errors.New("geolocation unavailable")
)

// Locator resolves the device's current position.
type Locator interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// Static always reports the same position, e.g. one supplied by a browser client.
type Static weather.Coordinates

func (s Static) Locate(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates(s), nil
}

// Denied models a user who refused the permission prompt.
type Denied struct{}

func (Denied) Locate(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates{}, ErrPermissionDenied
}

// Unsupported models a client without any geolocation capability.
type Unsupported struct{}

func (Unsupported) Locate(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates{}, ErrUnsupported
}

const DefaultIPLookupURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// IPLocator approximates the position from the caller's public IP address
// using an ip-api.com compatible endpoint.
type IPLocator struct {
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewIPLocator(client *http.Client, url string) *IPLocator {
	if url == "" {
		url = DefaultIPLookupURL
	}
	return &IPLocator{
		url:    url,
		client: client,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ip-geolocation",
			MaxRequests: 1,
			Interval:    1 * time.Minute,
			Timeout:     5 * time.Minute,
		}),
	}
}

func (l *IPLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return weather.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	result, err := l.circuit.Execute(func() (interface{}, error) {
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ip lookup status %d", resp.StatusCode)
		}

		var payload struct {
			Status  string   `json:"status"`
			Message string   `json:"message"`
			Lat     *float64 `json:"lat"`
			Lon     *float64 `json:"lon"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		if payload.Status != "success" || payload.Lat == nil || payload.Lon == nil {
			return nil, fmt.Errorf("ip lookup failed: %s", payload.Message)
		}
		return weather.Coordinates{Lat: *payload.Lat, Lon: *payload.Lon}, nil
	})
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result.(weather.Coordinates), nil
}
