package ui

import (
	"context"
	"sync"
	"time"

	"github.com/ngmaloney/ecotrack-terminal/internal/geolocation"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

// Mock collaborators for testing

type fakeSuggester struct {
	mu      sync.Mutex
	queries []string
	results []models.CitySuggestion
	err     error
}

func (f *fakeSuggester) Suggest(ctx context.Context, partial string) ([]models.CitySuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, partial)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSuggester) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type pollutionCall struct {
	lat, lon float64
}

type fakePollution struct {
	mu      sync.Mutex
	calls   []pollutionCall
	reading *models.PollutionReading
	err     error
}

func (f *fakePollution) CurrentPollution(ctx context.Context, lat, lon float64) (*models.PollutionReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pollutionCall{lat: lat, lon: lon})
	if f.err != nil {
		return nil, f.err
	}
	return f.reading, nil
}

type fakeResolver struct {
	coords geolocation.Coordinates
	err    error
}

func (f fakeResolver) Resolve(context.Context) (geolocation.Coordinates, error) {
	return f.coords, f.err
}

type fakeStore struct {
	mu         sync.Mutex
	theme      models.Theme
	lastSearch *models.SearchHistoryEntry
	themeSaves int
	searchSave int
	saveErr    error

	// beforeThemeSave, when set, runs at the start of every SaveTheme
	beforeThemeSave func(models.Theme)
}

func (f *fakeStore) LoadTheme() (models.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.theme, nil
}

func (f *fakeStore) SaveTheme(t models.Theme) error {
	if f.beforeThemeSave != nil {
		f.beforeThemeSave(t)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.theme = t
	f.themeSaves++
	return nil
}

func (f *fakeStore) LoadLastSearch() (*models.SearchHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSearch, nil
}

func (f *fakeStore) SaveLastSearch(e models.SearchHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.lastSearch = &e
	f.searchSave++
	return nil
}

func (f *fakeStore) storedTheme() models.Theme {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.theme
}

var fixedNow = time.Date(2025, 6, 1, 14, 30, 5, 0, time.Local)

func londonReading() *models.PollutionReading {
	return &models.PollutionReading{
		AQI: 2,
		Components: models.Components{
			models.PollutantCO:   200,
			models.PollutantNO2:  15,
			models.PollutantO3:   60,
			models.PollutantPM10: 10,
		},
	}
}
