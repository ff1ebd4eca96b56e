package widget

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-lookup/internal/effects"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// View is the presentation model of a State, as served to clients.
type View struct {
	Query       string           `json:"query"`
	Loading     bool             `json:"loading"`
	Error       string           `json:"error,omitempty"`
	Dark        bool             `json:"dark"`
	Suggestions []SuggestionView `json:"suggestions"`
	Current     *CurrentView     `json:"current,omitempty"`
	Forecast    []DayView        `json:"forecast"`
	Effects     effects.Overlay  `json:"effects"`
}

type SuggestionView struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type CurrentView struct {
	Place       string            `json:"place"`
	Description string            `json:"description"`
	Condition   weather.Condition `json:"condition"`
	Temperature string            `json:"temperature"`
	Humidity    string            `json:"humidity"`
	FeelsLike   string            `json:"feelsLike"`
	ObservedAt  time.Time         `json:"observedAt"`
}

type DayView struct {
	Weekday     string            `json:"weekday"`
	Date        time.Time         `json:"date"`
	Condition   weather.Condition `json:"condition"`
	Temperature string            `json:"temperature"`
}

// View renders s. The effects overlay is only drawn once conditions are loaded
// and is fed nothing but the condition category and the dark flag.
func (s State) View(r *effects.Renderer) View {
	v := View{
		Query:       s.Query,
		Loading:     s.Loading,
		Error:       s.Error,
		Dark:        s.Dark,
		Suggestions: make([]SuggestionView, 0, len(s.Suggestions)),
		Forecast:    []DayView{},
		Effects:     effects.Overlay{Dark: s.Dark},
	}

	for i, sg := range s.Suggestions {
		v.Suggestions = append(v.Suggestions, SuggestionView{
			Index: i,
			Label: sg.Label(),
			Lat:   sg.Lat,
			Lon:   sg.Lon,
		})
	}

	if c := s.Current; c != nil {
		v.Current = &CurrentView{
			Place:       c.Place,
			Description: c.Description,
			Condition:   c.Condition,
			Temperature: weather.FormatTemp(c.Temperature),
			Humidity:    fmt.Sprintf("%.0f%%", c.Humidity),
			FeelsLike:   weather.FormatTemp(c.FeelsLike),
			ObservedAt:  c.ObservedAt,
		}
		if r != nil {
			v.Effects = r.Render(c.Condition, s.Dark)
		}
	}

	if s.Forecast != nil {
		for _, sample := range weather.DailySubset(*s.Forecast) {
			v.Forecast = append(v.Forecast, DayView{
				Weekday:     weather.WeekdayShort(sample.Time),
				Date:        sample.Time,
				Condition:   sample.Condition,
				Temperature: weather.FormatTemp(sample.Temperature),
			})
		}
	}
	return v
}
