package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/ecotrack-terminal/internal/airquality"
	"github.com/ngmaloney/ecotrack-terminal/internal/geocoding"
	"github.com/ngmaloney/ecotrack-terminal/internal/geolocation"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

// Message types for async operations

// locationMsg is sent when geolocation completes.
// It is dropped unless seq is still the latest lookup.
type locationMsg struct {
	seq    int
	coords geolocation.Coordinates
	err    error
}

// suggestDebounceMsg fires when the input has been quiet for the debounce window.
// It is dropped unless seq is still the latest input edit.
type suggestDebounceMsg struct {
	seq   int
	query string
}

// suggestionsMsg is sent when an autosuggest lookup completes
type suggestionsMsg struct {
	seq         int
	query       string
	suggestions []models.CitySuggestion
	err         error
}

// pollutionFetchedMsg is sent when a pollution fetch completes.
// Only the response whose id matches the latest request is applied.
type pollutionFetchedMsg struct {
	id      int
	name    string
	reading *models.PollutionReading
	err     error
}

// persistFailedMsg reports a preference write that failed
type persistFailedMsg struct {
	key string
	err error
}

// resolveLocation asks the resolver for the current position
func resolveLocation(resolver geolocation.Resolver, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		coords, err := resolver.Resolve(ctx)
		return locationMsg{seq: seq, coords: coords, err: err}
	}
}

// debounceSuggest waits out the debounce window before a lookup may fire
func debounceSuggest(seq int, query string, wait time.Duration) tea.Cmd {
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return suggestDebounceMsg{seq: seq, query: query}
	})
}

// fetchSuggestions performs the autosuggest lookup in the background
func fetchSuggestions(ctx context.Context, s geocoding.Suggester, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		suggestions, err := s.Suggest(ctx, query)
		return suggestionsMsg{seq: seq, query: query, suggestions: suggestions, err: err}
	}
}

// fetchPollution fetches the reading for a coordinate in the background
func fetchPollution(ctx context.Context, client airquality.Client, id int, lat, lon float64, name string) tea.Cmd {
	return func() tea.Msg {
		reading, err := client.CurrentPollution(ctx, lat, lon)
		return pollutionFetchedMsg{id: id, name: name, reading: reading, err: err}
	}
}
