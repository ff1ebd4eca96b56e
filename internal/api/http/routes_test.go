package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/session"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/widget"
)

type stubGeocoder struct{}

func (stubGeocoder) Suggest(_ context.Context, q string) ([]weather.LocationSuggestion, error) {
	if q != "Paris" {
		return nil, nil
	}
	return []weather.LocationSuggestion{
		{Name: "Paris", State: "Ile-de-France", Country: "FR", Lat: 48.85, Lon: 2.35},
		{Name: "Paris", State: "Texas", Country: "US", Lat: 33.66, Lon: -95.55},
	}, nil
}

type stubSource struct{ failForecast bool }

func (stubSource) Current(_ context.Context, at weather.Coordinates) (weather.CurrentConditions, error) {
	place := "Paris"
	if at.Lat < 40 {
		place = "Paris TX"
	}
	return weather.CurrentConditions{Place: place, Temperature: 14.6, Condition: weather.ConditionSnow}, nil
}

func (s stubSource) Forecast(context.Context, weather.Coordinates) (weather.ForecastWindow, error) {
	if s.failForecast {
		return weather.ForecastWindow{}, errors.New("boom")
	}
	return weather.ForecastWindow{Samples: []weather.ForecastSample{{Temperature: 10}}}, nil
}

func newTestApp(t *testing.T, src weather.Source) *fiber.App {
	t.Helper()

	store := session.NewStore(0, 0)
	t.Cleanup(store.Close)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Deps{
		Sessions: store,
		NewWidget: func(l geo.Locator) *widget.Orchestrator {
			return widget.New(stubGeocoder{}, src, l, widget.Options{DebounceDelay: 10 * time.Millisecond})
		},
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, sessionResponse) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out sessionResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.StatusCode < 300 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func get(t *testing.T, app *fiber.App, id string) widget.View {
	t.Helper()
	code, out := do(t, app, http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, code)
	return out.View
}

func TestSessionWithDeniedGeolocation(t *testing.T) {
	app := newTestApp(t, stubSource{})

	code, created := do(t, app, http.MethodPost, "/api/v1/sessions", `{"geolocation":"denied"}`)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, created.ID)

	require.Eventually(t, func() bool {
		return get(t, app, created.ID).Error == weather.MsgGeolocationFailed
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, get(t, app, created.ID).Current)

	// Manual search still works.
	code, _ = do(t, app, http.MethodPut, "/api/v1/sessions/"+created.ID+"/query", `{"text":"Paris"}`)
	require.Equal(t, http.StatusAccepted, code)
	require.Eventually(t, func() bool {
		return len(get(t, app, created.ID).Suggestions) == 2
	}, time.Second, 5*time.Millisecond)

	code, selected := do(t, app, http.MethodPost, "/api/v1/sessions/"+created.ID+"/select", `{"index":1}`)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, selected.View.Current)
	assert.Equal(t, "Paris TX", selected.View.Current.Place)
	assert.Equal(t, "15°C", selected.View.Current.Temperature)
	assert.Empty(t, selected.View.Suggestions)
	assert.Empty(t, selected.View.Query)
	assert.Empty(t, selected.View.Error)
	require.Len(t, selected.View.Effects.Layers, 1)
}

func TestSessionWithGrantedGeolocation(t *testing.T) {
	app := newTestApp(t, stubSource{})

	code, created := do(t, app, http.MethodPost, "/api/v1/sessions", `{"geolocation":"granted","lat":48.85,"lon":2.35}`)
	require.Equal(t, http.StatusCreated, code)

	require.Eventually(t, func() bool {
		v := get(t, app, created.ID)
		return v.Current != nil && v.Current.Place == "Paris"
	}, time.Second, 5*time.Millisecond)
}

func TestSelectWithFailingForecastShowsGenericError(t *testing.T) {
	app := newTestApp(t, stubSource{failForecast: true})

	code, created := do(t, app, http.MethodPost, "/api/v1/sessions", `{"geolocation":"unsupported"}`)
	require.Equal(t, http.StatusCreated, code)

	code, selected := do(t, app, http.MethodPost, "/api/v1/sessions/"+created.ID+"/select", `{"lat":48.85,"lon":2.35}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, weather.MsgWeatherFailed, selected.View.Error)
	assert.Nil(t, selected.View.Current)
	assert.Empty(t, selected.View.Forecast)
}

func TestValidation(t *testing.T) {
	app := newTestApp(t, stubSource{})
	_, created := do(t, app, http.MethodPost, "/api/v1/sessions", `{"geolocation":"unsupported"}`)
	base := "/api/v1/sessions/" + created.ID

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown geolocation", http.MethodPost, "/api/v1/sessions", `{"geolocation":"maybe"}`, http.StatusBadRequest},
		{"granted without coords", http.MethodPost, "/api/v1/sessions", `{"geolocation":"granted"}`, http.StatusBadRequest},
		{"latitude out of range", http.MethodPost, base + "/select", `{"lat":91,"lon":0}`, http.StatusBadRequest},
		{"negative index", http.MethodPost, base + "/select", `{"index":-1}`, http.StatusBadRequest},
		{"index past suggestions", http.MethodPost, base + "/select", `{"index":3}`, http.StatusBadRequest},
		{"empty select", http.MethodPost, base + "/select", `{}`, http.StatusBadRequest},
		{"malformed body", http.MethodPut, base + "/query", `{"text":`, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/v1/sessions/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := do(t, app, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestDeleteSession(t *testing.T) {
	app := newTestApp(t, stubSource{})
	_, created := do(t, app, http.MethodPost, "/api/v1/sessions", "")

	code, _ := do(t, app, http.MethodDelete, "/api/v1/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = do(t, app, http.MethodDelete, "/api/v1/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRateLimit(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RateLimit(rate.NewLimiter(rate.Every(time.Hour), 1)))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
