package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/ecotrack-terminal/internal/airquality"
	"github.com/ngmaloney/ecotrack-terminal/internal/geolocation"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

type testDeps struct {
	suggester *fakeSuggester
	pollution *fakePollution
	store     *fakeStore
}

func newTestModel(resolver geolocation.Resolver) (Model, testDeps) {
	deps := testDeps{
		suggester: &fakeSuggester{},
		pollution: &fakePollution{reading: londonReading()},
		store:     &fakeStore{},
	}

	m := NewModel(Options{
		Suggester: deps.suggester,
		Pollution: deps.pollution,
		Locator:   resolver,
		Store:     deps.store,
		Clock:     func() time.Time { return fixedNow },
		Debounce:  time.Millisecond,
	})

	return m, deps
}

// contextFor returns a context cancelled when the test ends
func contextFor(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// update feeds msg to m and returns the concrete model
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// typeText sends one key message per rune
func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(nil)

	if m.State() != StateLoading {
		t.Errorf("NewModel() state = %v, want StateLoading", m.State())
	}
	if m.cityName != DefaultCityName {
		t.Errorf("cityName = %q, want %q", m.cityName, DefaultCityName)
	}
	if m.theme != models.ThemeLight {
		t.Errorf("theme = %v, want light", m.theme)
	}
	if !m.searchInput.Focused() {
		t.Error("Expected search input to be focused initially")
	}
}

func TestNewModel_LoadsPreferences(t *testing.T) {
	store := &fakeStore{
		theme:      models.ThemeDark,
		lastSearch: &models.SearchHistoryEntry{Name: "Paris, FR", AQI: 3, Time: "08:00:00"},
	}

	m := NewModel(Options{Store: store})

	if m.Theme() != models.ThemeDark {
		t.Errorf("Theme() = %v, want dark", m.Theme())
	}
	if m.LastSearch() == nil || m.LastSearch().Name != "Paris, FR" {
		t.Errorf("LastSearch() = %+v, want Paris, FR", m.LastSearch())
	}
	if store.themeSaves != 0 || store.searchSave != 0 {
		t.Error("loading preferences should not write them back")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m, _ := newTestModel(nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.width != 120 {
		t.Errorf("After WindowSizeMsg, width = %d, want 120", m.width)
	}
	if m.height != 40 {
		t.Errorf("After WindowSizeMsg, height = %d, want 40", m.height)
	}
}

func TestModel_CtrlC_Quits(t *testing.T) {
	m, _ := newTestModel(nil)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected Ctrl+C to return quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected Ctrl+C command to produce tea.QuitMsg")
	}
}

func TestGeolocationDenied(t *testing.T) {
	m, deps := newTestModel(fakeResolver{err: geolocation.ErrLocationDenied})

	msg := resolveLocation(m.locator, m.locateSeq)()
	m, cmd := update(t, m, msg)

	if m.Err() != msgLocationDenied {
		t.Errorf("Err() = %q, want %q", m.Err(), msgLocationDenied)
	}
	if m.loading {
		t.Error("loading should be cleared after denial")
	}
	if cmd != nil {
		t.Error("no command should follow a denied location")
	}
	if len(deps.pollution.calls) != 0 {
		t.Errorf("pollution fetches = %d, want 0", len(deps.pollution.calls))
	}
	if m.State() != StateError {
		t.Errorf("State() = %v, want StateError", m.State())
	}
}

func TestGeolocationSuccess_FetchesRegion(t *testing.T) {
	m, deps := newTestModel(fakeResolver{coords: geolocation.Coordinates{Lat: -23.55, Lon: -46.63}})

	m, cmd := update(t, m, resolveLocation(m.locator, m.locateSeq)())
	if cmd == nil {
		t.Fatal("expected a pollution fetch command")
	}
	if !m.loading {
		t.Error("loading should stay on while fetching")
	}

	fetched := m.fetchSeq
	msg := fetchPollution(contextFor(t), deps.pollution, fetched, -23.55, -46.63, RegionName)()
	m, _ = update(t, m, msg)

	reading, name := m.Reading()
	if reading == nil || name != RegionName {
		t.Errorf("Reading() = %v, %q, want reading for %q", reading, name, RegionName)
	}
	if len(deps.pollution.calls) != 1 || deps.pollution.calls[0].lat != -23.55 {
		t.Errorf("pollution calls = %+v", deps.pollution.calls)
	}
}

func TestFetchPollution_LondonScenario(t *testing.T) {
	m, deps := newTestModel(nil)
	m.suggestions = []models.CitySuggestion{{Name: "London", Country: "GB", Lat: 51.5, Lon: -0.1}}
	m.searchInput.SetValue("Londo")

	m, cmd := m.startPollutionFetch(51.5, -0.1, "London, GB")
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	if m.searchInput.Value() != "" {
		t.Errorf("search input = %q, want cleared", m.searchInput.Value())
	}
	if len(m.suggestions) != 0 {
		t.Error("suggestions should be cleared when a fetch starts")
	}

	msg := fetchPollution(contextFor(t), deps.pollution, m.fetchSeq, 51.5, -0.1, "London, GB")()
	m, save := update(t, m, msg)

	if m.loading {
		t.Error("loading should be cleared after a successful fetch")
	}
	if got := airquality.Classify(m.reading.AQI).Label; got != "Bom" {
		t.Errorf("label = %q, want Bom", got)
	}

	series := models.ChartSeries(m.reading)
	want := []float64{2, 15, 60, 10}
	for i, v := range want {
		if series[i].Value != v {
			t.Errorf("series[%d] = %v, want %v", i, series[i].Value, v)
		}
	}

	// History is persisted by the command the transition produced
	if save == nil {
		t.Fatal("expected a save command after a successful fetch")
	}
	save()

	wantEntry := models.SearchHistoryEntry{Name: "London, GB", AQI: 2, Time: "14:30:05"}
	if deps.store.lastSearch == nil || *deps.store.lastSearch != wantEntry {
		t.Errorf("stored history = %+v, want %+v", deps.store.lastSearch, wantEntry)
	}
	if deps.store.searchSave != 1 {
		t.Errorf("history saves = %d, want 1", deps.store.searchSave)
	}
}

func TestFetchPollution_HistoryOverwrites(t *testing.T) {
	m, deps := newTestModel(nil)
	deps.store.lastSearch = &models.SearchHistoryEntry{Name: "Paris, FR", AQI: 4, Time: "07:00:00"}

	for _, name := range []string{"Lisboa, PT", "London, GB"} {
		var cmd tea.Cmd
		m, _ = m.startPollutionFetch(1, 2, name)
		m, cmd = update(t, m, pollutionFetchedMsg{id: m.fetchSeq, name: name, reading: londonReading()})
		cmd()
	}

	if deps.store.lastSearch.Name != "London, GB" {
		t.Errorf("stored history = %+v, want London, GB", deps.store.lastSearch)
	}
	if deps.store.searchSave != 2 {
		t.Errorf("history saves = %d, want 2", deps.store.searchSave)
	}
}

func TestFetchPollution_FailureKeepsStaleReading(t *testing.T) {
	m, deps := newTestModel(nil)

	m, _ = m.startPollutionFetch(51.5, -0.1, "London, GB")
	m, _ = update(t, m, pollutionFetchedMsg{id: m.fetchSeq, name: "London, GB", reading: londonReading()})

	m, _ = m.startPollutionFetch(48.85, 2.35, "Paris, FR")
	m, cmd := update(t, m, pollutionFetchedMsg{id: m.fetchSeq, name: "Paris, FR", err: errors.New("boom")})

	if cmd != nil {
		t.Error("a failed fetch should not persist anything")
	}
	if m.Err() != msgLoadFailed {
		t.Errorf("Err() = %q, want %q", m.Err(), msgLoadFailed)
	}
	if m.loading {
		t.Error("loading should be cleared after a failed fetch")
	}
	if _, name := m.Reading(); name != "London, GB" {
		t.Errorf("city = %q, want previous reading kept", name)
	}
	if deps.store.lastSearch != nil {
		t.Error("failed fetch must not touch history")
	}
	if m.State() != StateError {
		t.Errorf("State() = %v, want StateError", m.State())
	}
}

func TestFetchPollution_SupersededResponseIgnored(t *testing.T) {
	m, _ := newTestModel(nil)

	m, _ = m.startPollutionFetch(48.85, 2.35, "Paris, FR")
	slowID := m.fetchSeq
	m, _ = m.startPollutionFetch(51.5, -0.1, "London, GB")
	fastID := m.fetchSeq

	london := londonReading()
	m, _ = update(t, m, pollutionFetchedMsg{id: fastID, name: "London, GB", reading: london})

	paris := &models.PollutionReading{AQI: 5}
	m, cmd := update(t, m, pollutionFetchedMsg{id: slowID, name: "Paris, FR", reading: paris})

	if cmd != nil {
		t.Error("a superseded response should produce no command")
	}
	if reading, name := m.Reading(); reading != london || name != "London, GB" {
		t.Errorf("Reading() = %v, %q; stale response overwrote the newer one", reading, name)
	}
	if m.LastSearch().Name != "London, GB" {
		t.Errorf("LastSearch() = %+v, want London, GB", m.LastSearch())
	}
}

func TestSuccessClearsError(t *testing.T) {
	m, _ := newTestModel(fakeResolver{err: geolocation.ErrLocationDenied})
	m, _ = update(t, m, resolveLocation(m.locator, m.locateSeq)())

	m, _ = m.startPollutionFetch(51.5, -0.1, "London, GB")
	m, _ = update(t, m, pollutionFetchedMsg{id: m.fetchSeq, name: "London, GB", reading: londonReading()})

	if m.Err() != "" {
		t.Errorf("Err() = %q, want cleared after success", m.Err())
	}
	if m.State() != StateDisplay {
		t.Errorf("State() = %v, want StateDisplay", m.State())
	}
}

func TestThemeToggle_PersistsOnTransition(t *testing.T) {
	m, deps := newTestModel(nil)
	original := m.Theme()

	for i := 0; i < 2; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
		if cmd == nil {
			t.Fatalf("toggle %d: expected a save command", i+1)
		}
		cmd()
	}

	if m.Theme() != original {
		t.Errorf("Theme() = %v, want %v after two toggles", m.Theme(), original)
	}
	if deps.store.theme != original {
		t.Errorf("stored theme = %v, want %v", deps.store.theme, original)
	}
	if deps.store.themeSaves != 2 {
		t.Errorf("theme saves = %d, want 2", deps.store.themeSaves)
	}
}

func TestPersistFailureIsAbsorbed(t *testing.T) {
	m, deps := newTestModel(nil)
	deps.store.saveErr = errors.New("disk full")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	msg := cmd()

	if _, ok := msg.(persistFailedMsg); !ok {
		t.Fatalf("save command returned %T, want persistFailedMsg", msg)
	}

	m, cmd = update(t, m, msg)
	if cmd != nil || m.Err() != "" {
		t.Error("persist failures are logged only")
	}
}

func TestView_RendersReading(t *testing.T) {
	m, _ := newTestModel(fakeResolver{err: geolocation.ErrLocationDenied})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})
	m, _ = m.startPollutionFetch(51.5, -0.1, "London, GB")
	m, _ = update(t, m, pollutionFetchedMsg{id: m.fetchSeq, name: "London, GB", reading: londonReading()})

	view := m.View()

	for _, want := range []string{"London, GB", "BOM", "Qualidade aceitável", "COMPOSIÇÃO QUÍMICA", "CO/100 2.00", "PM10 10.00", "AQI 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_LoadingAndError(t *testing.T) {
	m, _ := newTestModel(fakeResolver{err: geolocation.ErrLocationDenied})

	if got := m.View(); got != "Carregando..." {
		t.Errorf("View() before sizing = %q", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	if !strings.Contains(m.View(), "ANALISANDO ATMOSFERA") {
		t.Error("loading view should show the loading panel")
	}

	m, _ = update(t, m, resolveLocation(m.locator, m.locateSeq)())
	view := m.View()
	if !strings.Contains(view, msgLocationDenied) {
		t.Error("error banner missing")
	}
	if strings.Contains(view, "ANALISANDO ATMOSFERA") {
		t.Error("loading panel should be gone after denial")
	}
}
