package weather

import (
	"fmt"
	"math"
	"time"
)

// User-facing messages for the fixed pt-BR locale.
const (
	MsgSuggestionsFailed = "Erro ao buscar sugestões. Por favor, tente novamente."
	MsgWeatherFailed     = "Erro ao buscar dados do clima. Por favor, tente novamente."
	MsgGeolocationFailed = "Erro ao obter localização. Por favor, permita o acesso à localização ou busque manualmente."
)

var weekdaysPTBR = [...]string{"dom.", "seg.", "ter.", "qua.", "qui.", "sex.", "sáb."}

// Label renders the suggestion the way the suggestion list shows it.
func (s LocationSuggestion) Label() string {
	if s.State != "" {
		return fmt.Sprintf("%s - %s, %s", s.Name, s.State, s.Country)
	}
	return fmt.Sprintf("%s, %s", s.Name, s.Country)
}

// RoundTemp rounds a temperature to whole degrees, halves toward +Inf.
func RoundTemp(c float64) int {
	return int(math.Floor(c + 0.5))
}

// FormatTemp renders a temperature as e.g. "21°C".
func FormatTemp(c float64) string {
	return fmt.Sprintf("%d°C", RoundTemp(c))
}

// WeekdayShort returns the abbreviated pt-BR weekday of t.
func WeekdayShort(t time.Time) string {
	return weekdaysPTBR[t.Weekday()]
}
