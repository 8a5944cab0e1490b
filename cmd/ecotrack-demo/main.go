package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/ngmaloney/ecotrack-terminal/internal/geocoding"
	"github.com/ngmaloney/ecotrack-terminal/internal/geolocation"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
	"github.com/ngmaloney/ecotrack-terminal/internal/ui"
)

// This demo shows the UI with mock data, no network and no API key
func main() {
	m := ui.NewModel(ui.Options{
		Suggester: demoSuggester{},
		Pollution: demoPollution{},
		Locator:   demoLocator{},
		Logger:    zerolog.Nop(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running demo: %v\n", err)
		os.Exit(1)
	}
}

var demoCities = []models.CitySuggestion{
	{Name: "São Paulo", State: "São Paulo", Country: "BR", Lat: -23.5505, Lon: -46.6333},
	{Name: "Santos", State: "São Paulo", Country: "BR", Lat: -23.9608, Lon: -46.3336},
	{Name: "Lisboa", Country: "PT", Lat: 38.7223, Lon: -9.1393},
	{Name: "London", State: "England", Country: "GB", Lat: 51.5073, Lon: -0.1276},
	{Name: "Londrina", State: "Paraná", Country: "BR", Lat: -23.3045, Lon: -51.1696},
	{Name: "Delhi", Country: "IN", Lat: 28.6517, Lon: 77.2219},
	{Name: "Beijing", Country: "CN", Lat: 39.9057, Lon: 116.3913},
}

// demoSuggester matches city names by prefix
type demoSuggester struct{}

func (demoSuggester) Suggest(ctx context.Context, partial string) ([]models.CitySuggestion, error) {
	partial = strings.TrimSpace(partial)
	if !geocoding.IsSearchable(partial) {
		return nil, nil
	}

	var out []models.CitySuggestion
	for _, c := range demoCities {
		if strings.HasPrefix(strings.ToLower(c.Name), strings.ToLower(partial)) {
			out = append(out, c)
		}
		if len(out) == geocoding.MaxSuggestions {
			break
		}
	}
	return out, nil
}

// demoPollution derives a stable reading from the coordinates
type demoPollution struct{}

func (demoPollution) CurrentPollution(ctx context.Context, lat, lon float64) (*models.PollutionReading, error) {
	select {
	case <-time.After(600 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Busier longitudes get worse air, good enough for a demo
	aqi := int(lon+180)%5 + 1
	scale := float64(aqi)

	return &models.PollutionReading{
		AQI: aqi,
		Components: models.Components{
			models.PollutantCO:   180 * scale,
			models.PollutantNO:   0.4 * scale,
			models.PollutantNO2:  9 * scale,
			models.PollutantO3:   40 + 12*scale,
			models.PollutantSO2:  2.5 * scale,
			models.PollutantPM25: 4 * scale,
			models.PollutantPM10: 7 * scale,
			models.PollutantNH3:  1.1 * scale,
		},
		CapturedAt: time.Now(),
	}, nil
}

// demoLocator always places the user in São Paulo
type demoLocator struct{}

func (demoLocator) Resolve(context.Context) (geolocation.Coordinates, error) {
	return geolocation.Coordinates{Lat: -23.5505, Lon: -46.6333}, nil
}
