package weather

import (
	"context"
)

// Geocoder resolves a free-text place name into candidate locations.
type Geocoder interface {
	Suggest(ctx context.Context, query string) ([]LocationSuggestion, error)
}

// Source abstracts the current-conditions and forecast endpoints for a position.
type Source interface {
	Current(ctx context.Context, at Coordinates) (CurrentConditions, error)
	Forecast(ctx context.Context, at Coordinates) (ForecastWindow, error)
}
