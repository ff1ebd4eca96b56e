// Package widget owns the lookup state: the search text, its debounced
// suggestions, the loaded weather pair and the derived light/dark flag.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/metrics"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	ErrSuggestions  = errors.New("suggestion lookup failed")
	ErrWeather      = errors.New("weather lookup failed")
	ErrGeolocation  = errors.New("geolocation failed")
	ErrStale        = errors.New("response superseded by a newer request")
	ErrNoSuggestion = errors.New("no such suggestion")
)

const (
	DefaultMinQueryLength = 2
	DefaultDebounceDelay  = 300 * time.Millisecond
)

// Options tunes an Orchestrator. Zero values take the defaults.
type Options struct {
	MinQueryLength int
	DebounceDelay  time.Duration
	Clock          func() time.Time
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// State is a point-in-time copy of everything the view renders.
type State struct {
	Query       string
	Suggestions []weather.LocationSuggestion
	Current     *weather.CurrentConditions
	Forecast    *weather.ForecastWindow
	Loading     bool
	Error       string // single slot, last write wins
	Dark        bool
}

// Orchestrator drives one lookup session. All methods are safe for concurrent use.
//
// Responses are gated by request generation: a suggestion or weather response
// that arrives after a newer request of the same kind was issued is dropped
// and the call returns ErrStale.
type Orchestrator struct {
	geocoder weather.Geocoder
	source   weather.Source
	locator  geo.Locator

	opts     Options
	logger   *slog.Logger
	metrics  *metrics.Metrics
	debounce *debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	suggestGen uint64
	weatherGen uint64

	bootstrapOnce sync.Once
	bootstrapErr  error
}

// New builds an orchestrator. A nil locator behaves like a device without geolocation.
func New(geocoder weather.Geocoder, source weather.Source, locator geo.Locator, opts Options) *Orchestrator {
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = DefaultMinQueryLength
	}
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = DefaultDebounceDelay
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if locator == nil {
		locator = geo.Unsupported{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		geocoder: geocoder,
		source:   source,
		locator:  locator,
		opts:     opts,
		logger:   logger.With(slog.String("component", "widget")),
		metrics:  opts.Metrics,
		debounce: newDebouncer(opts.DebounceDelay),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetQuery records new search text. Text shorter than MinQueryLength clears
// the suggestions right away; longer text schedules a suggestion lookup once
// typing has paused, replacing any lookup scheduled by an earlier keystroke.
func (o *Orchestrator) SetQuery(text string) {
	short := utf8.RuneCountInString(text) < o.opts.MinQueryLength

	o.mu.Lock()
	o.state.Query = text
	if short {
		o.state.Suggestions = nil
		o.suggestGen++
	}
	o.mu.Unlock()

	if short {
		o.debounce.Cancel()
		return
	}
	o.debounce.Schedule(func() {
		_, _ = o.FetchSuggestions(o.ctx, text)
	})
}

// FetchSuggestions queries the geocoder for text and stores the result.
// On failure the list is cleared and the error message set; there is no retry.
func (o *Orchestrator) FetchSuggestions(ctx context.Context, text string) ([]weather.LocationSuggestion, error) {
	l := o.logger.With(slog.String("method", "FetchSuggestions"))

	o.mu.Lock()
	o.suggestGen++
	gen := o.suggestGen
	if utf8.RuneCountInString(text) < o.opts.MinQueryLength {
		o.state.Suggestions = nil
		o.mu.Unlock()
		return nil, nil
	}
	o.mu.Unlock()

	res, err := o.geocoder.Suggest(ctx, text)

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.suggestGen {
		l.DebugContext(ctx, "Dropping stale suggestions", slog.String("query", text))
		o.metrics.ObserveSuggestions(metrics.OutcomeStale)
		return nil, ErrStale
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch suggestions", slog.String("query", text), slog.Any("error", err))
		o.metrics.ObserveSuggestions(metrics.OutcomeFailure)
		o.state.Suggestions = nil
		o.state.Error = weather.MsgSuggestionsFailed
		return nil, fmt.Errorf("%w: %w", ErrSuggestions, err)
	}

	o.metrics.ObserveSuggestions(metrics.OutcomeSuccess)
	o.state.Suggestions = res
	return cloneSuggestions(res), nil
}

// SelectSuggestion loads weather for the suggestion at index in the current list.
func (o *Orchestrator) SelectSuggestion(ctx context.Context, index int) error {
	o.mu.Lock()
	if index < 0 || index >= len(o.state.Suggestions) {
		o.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoSuggestion, index)
	}
	at := o.state.Suggestions[index].Coordinates()
	o.mu.Unlock()

	return o.LoadWeather(ctx, at)
}

// SelectLocation loads weather for an explicit position.
func (o *Orchestrator) SelectLocation(ctx context.Context, at weather.Coordinates) error {
	return o.LoadWeather(ctx, at)
}

// LoadWeather fetches current conditions and the forecast for at concurrently.
// Both replace the previous pair together, or, if either call fails, neither
// does and the generic weather error is shown.
func (o *Orchestrator) LoadWeather(ctx context.Context, at weather.Coordinates) error {
	l := o.logger.With(slog.String("method", "LoadWeather"))

	o.mu.Lock()
	o.weatherGen++
	gen := o.weatherGen
	o.suggestGen++
	o.state.Loading = true
	o.state.Error = ""
	o.state.Suggestions = nil
	o.state.Query = ""
	o.mu.Unlock()
	o.debounce.Cancel()

	var (
		current  weather.CurrentConditions
		forecast weather.ForecastWindow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := o.source.Current(gctx, at)
		if err != nil {
			return err
		}
		current = c
		return nil
	})
	g.Go(func() error {
		f, err := o.source.Forecast(gctx, at)
		if err != nil {
			return err
		}
		forecast = f
		return nil
	})
	err := g.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.weatherGen {
		l.DebugContext(ctx, "Dropping stale weather", slog.Float64("lat", at.Lat), slog.Float64("lon", at.Lon))
		o.metrics.ObserveWeatherLoad(metrics.OutcomeStale)
		return ErrStale
	}

	o.state.Loading = false
	if err != nil {
		l.ErrorContext(ctx, "Failed to load weather",
			slog.Float64("lat", at.Lat), slog.Float64("lon", at.Lon), slog.Any("error", err))
		o.metrics.ObserveWeatherLoad(metrics.OutcomeFailure)
		o.state.Error = weather.MsgWeatherFailed
		return fmt.Errorf("%w: %w", ErrWeather, err)
	}

	o.state.Current = &current
	o.state.Forecast = &forecast
	o.state.Dark = weather.IsDark(o.opts.Clock(), current)
	o.metrics.ObserveWeatherLoad(metrics.OutcomeSuccess)
	l.InfoContext(ctx, "Weather loaded",
		slog.String("place", current.Place), slog.Int("samples", len(forecast.Samples)))
	return nil
}

// Bootstrap loads weather for the device position. Only the first call does
// anything; later calls return the first call's result.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	o.bootstrapOnce.Do(func() {
		o.bootstrapErr = o.bootstrap(ctx)
	})
	return o.bootstrapErr
}

func (o *Orchestrator) bootstrap(ctx context.Context) error {
	at, err := o.locator.Locate(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "Geolocation unavailable, waiting for manual search", slog.Any("error", err))
		o.mu.Lock()
		o.state.Error = weather.MsgGeolocationFailed
		o.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrGeolocation, err)
	}
	return o.LoadWeather(ctx, at)
}

// Start runs Bootstrap in the background on the orchestrator's own context.
func (o *Orchestrator) Start() {
	go func() {
		_ = o.Bootstrap(o.ctx)
	}()
}

// RefreshTheme recomputes the light/dark flag against now. It reports whether
// the flag changed and does nothing when no conditions are loaded.
func (o *Orchestrator) RefreshTheme(now time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Current == nil {
		return false
	}
	dark := weather.IsDark(now, *o.state.Current)
	changed := dark != o.state.Dark
	o.state.Dark = dark
	return changed
}

// Snapshot returns a deep copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.state
	s.Suggestions = cloneSuggestions(o.state.Suggestions)
	if o.state.Current != nil {
		c := *o.state.Current
		s.Current = &c
	}
	if o.state.Forecast != nil {
		f := weather.ForecastWindow{Samples: append([]weather.ForecastSample(nil), o.state.Forecast.Samples...)}
		s.Forecast = &f
	}
	return s
}

// Close cancels pending suggestion lookups and any background bootstrap.
func (o *Orchestrator) Close() {
	o.debounce.Cancel()
	o.cancel()
}

func cloneSuggestions(in []weather.LocationSuggestion) []weather.LocationSuggestion {
	if in == nil {
		return nil
	}
	return append([]weather.LocationSuggestion(nil), in...)
}
