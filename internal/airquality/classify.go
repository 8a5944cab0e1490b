package airquality

import "github.com/ngmaloney/ecotrack-terminal/internal/models"

// Status describes how an AQI level is presented to the user
type Status struct {
	Level      int
	Label      string
	Color      string // colour token for the AQI number and label
	Background Backgrounds
	Tip        string // health advice
}

// Backgrounds holds the card background token for each theme
type Backgrounds struct {
	Light string
	Dark  string
}

// BackgroundFor returns the card background token for theme
func (s Status) BackgroundFor(theme models.Theme) string {
	if theme == models.ThemeDark {
		return s.Background.Dark
	}
	return s.Background.Light
}

var statuses = map[int]Status{
	1: {
		Level:      1,
		Label:      "Excelente",
		Color:      "emerald",
		Background: Backgrounds{Light: "emerald-50", Dark: "emerald-950"},
		Tip:        "Ar puro! Ótimo para esportes ao ar livre.",
	},
	2: {
		Level:      2,
		Label:      "Bom",
		Color:      "green",
		Background: Backgrounds{Light: "green-50", Dark: "green-950"},
		Tip:        "Qualidade aceitável. Pode ventilar a casa.",
	},
	3: {
		Level:      3,
		Label:      "Moderado",
		Color:      "yellow",
		Background: Backgrounds{Light: "yellow-50", Dark: "yellow-950"},
		Tip:        "Pessoas sensíveis devem reduzir esforço pesado.",
	},
	4: {
		Level:      4,
		Label:      "Ruim",
		Color:      "orange",
		Background: Backgrounds{Light: "orange-50", Dark: "orange-950"},
		Tip:        "Evite atividades prolongadas no exterior.",
	},
	5: {
		Level:      5,
		Label:      "Crítico",
		Color:      "red",
		Background: Backgrounds{Light: "red-50", Dark: "red-950"},
		Tip:        "Perigo! Mantenha janelas fechadas e use máscara.",
	},
}

// Classify maps an AQI to its presentation. Values outside 1..5 fall back to level 1.
func Classify(aqi int) Status {
	if s, ok := statuses[aqi]; ok {
		return s
	}
	return statuses[1]
}
