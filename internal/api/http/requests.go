package httpapi

import (
	"errors"

	"github.com/i474232898/weather-lookup/internal/geo"
)

// Geolocation outcomes a browser client can report when opening a session.
const (
	geoGranted     = "granted"
	geoDenied      = "denied"
	geoUnsupported = "unsupported"
)

type createSessionRequest struct {
	Geolocation string   `json:"geolocation" validate:"omitempty,oneof=granted denied unsupported"`
	Lat         *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon         *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// locator picks the position source for the new session. With no reported
// outcome the server's own locator is used.
func (r createSessionRequest) locator(fallback geo.Locator) (geo.Locator, error) {
	switch r.Geolocation {
	case geoGranted:
		if r.Lat == nil || r.Lon == nil {
			return nil, errors.New("lat and lon are required when geolocation is granted")
		}
		return geo.Static{Lat: *r.Lat, Lon: *r.Lon}, nil
	case geoDenied:
		return geo.Denied{}, nil
	case geoUnsupported:
		return geo.Unsupported{}, nil
	default:
		return fallback, nil
	}
}

type queryRequest struct {
	Text string `json:"text" validate:"max=200"`
}

type selectRequest struct {
	Index *int     `json:"index" validate:"omitempty,gte=0"`
	Lat   *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon   *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}
