package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/widget"
)

const (
	frameWidth  = 40
	frameHeight = 8
)

func printSuggestions(w io.Writer, suggestions []weather.LocationSuggestion, picked int) {
	for i, s := range suggestions {
		marker := " "
		if i == picked {
			marker = ">"
		}
		fmt.Fprintf(w, "%s [%d] %s\n", marker, i, s.Label())
	}
	fmt.Fprintln(w)
}

func printView(w io.Writer, v widget.View, showEffects bool) {
	if v.Error != "" {
		fmt.Fprintf(w, "! %s\n", v.Error)
	}
	if v.Current == nil {
		return
	}

	c := v.Current
	fmt.Fprintf(w, "%s - %s\n", c.Place, c.Description)
	fmt.Fprintln(w, strings.Repeat("=", frameWidth))
	fmt.Fprintf(w, "Temperatura: %s\n", c.Temperature)
	fmt.Fprintf(w, "Umidade:     %s\n", c.Humidity)
	fmt.Fprintf(w, "Sensação:    %s\n", c.FeelsLike)

	if len(v.Forecast) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Próximos Dias")
		for _, d := range v.Forecast {
			fmt.Fprintf(w, "  %-5s %-13s %s\n", d.Weekday, d.Condition, d.Temperature)
		}
	}

	if showEffects && !v.Effects.Empty() {
		fmt.Fprintln(w)
		for _, row := range v.Effects.Frame(frameWidth, frameHeight, 0) {
			fmt.Fprintln(w, row)
		}
	}
}
