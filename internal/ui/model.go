package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/ngmaloney/ecotrack-terminal/internal/airquality"
	"github.com/ngmaloney/ecotrack-terminal/internal/geocoding"
	"github.com/ngmaloney/ecotrack-terminal/internal/geolocation"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

// User-facing copy
const (
	DefaultCityName      = "Sua Localização"
	RegionName           = "Sua Região"
	msgLocationDenied    = "Localização negada. Pesquise uma cidade acima."
	msgLoadFailed        = "Erro ao carregar dados."
	DefaultDebounce      = 500 * time.Millisecond
	pollutionTimeout     = 30 * time.Second
	suggestionTimeout    = 10 * time.Second
	suggestionListWidth  = 60
	suggestionItemHeight = 3
)

// AppState represents what the screen is showing. It is derived from the model,
// never stored.
type AppState int

const (
	StateIdle    AppState = iota // Nothing loaded yet
	StateLoading                 // Locating or fetching a reading
	StateError                   // Error banner over whatever reading is shown
	StateDisplay                 // Showing a reading
)

// Options wires the model to its collaborators
type Options struct {
	Suggester geocoding.Suggester
	Pollution airquality.Client
	Locator   geolocation.Resolver
	Store     PreferenceStore // nil disables persistence
	Logger    zerolog.Logger

	// Clock stamps history entries. Defaults to time.Now.
	Clock func() time.Time

	// Debounce is the autosuggest quiet period. Defaults to DefaultDebounce.
	Debounce time.Duration

	// InitialQuery pre-fills the search box.
	InitialQuery string
}

// Model represents the application's state
type Model struct {
	width  int
	height int

	// Preferences
	theme      models.Theme
	lastSearch *models.SearchHistoryEntry

	// Status
	loading bool
	err     string

	// Search
	searchInput    textinput.Model
	suggestions    []models.CitySuggestion
	suggestionList list.Model
	suggestSeq     int
	cancelSuggest  context.CancelFunc

	// Reading
	reading     *models.PollutionReading
	cityName    string
	fetchSeq    int
	cancelFetch context.CancelFunc

	// locateSeq tags geolocation lookups; a user selection or a newer
	// lookup makes older results stale
	locateSeq int

	spinner spinner.Model

	// Collaborators
	suggester geocoding.Suggester
	pollution airquality.Client
	locator   geolocation.Resolver
	store     PreferenceStore
	prefs     *prefWriter
	logger    zerolog.Logger
	clock     func() time.Time
	debounce  time.Duration
}

// NewModel creates a new application model and loads saved preferences
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Pesquisar cidade..."
	ti.Prompt = "⌕ "
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = suggestionListWidth - 4

	s := spinner.New()
	s.Spinner = spinner.Dot

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	locator := opts.Locator
	if locator == nil {
		locator = geolocation.DisabledResolver{}
	}

	m := Model{
		loading:     true,
		searchInput: ti,
		cityName:    DefaultCityName,
		spinner:     s,
		suggester:   opts.Suggester,
		pollution:   opts.Pollution,
		locator:     locator,
		store:       opts.Store,
		prefs:       newPrefWriter(opts.Store),
		locateSeq:   1,
		logger:      opts.Logger,
		clock:       clock,
		debounce:    debounce,
	}

	if m.store != nil {
		theme, err := m.store.LoadTheme()
		if err != nil {
			m.logger.Error().Err(err).Msg("loading theme")
		}
		m.theme = theme

		last, err := m.store.LoadLastSearch()
		if err != nil {
			m.logger.Error().Err(err).Msg("loading last search")
		}
		m.lastSearch = last
	}

	if opts.InitialQuery != "" {
		m.searchInput.SetValue(opts.InitialQuery)
		m.searchInput.CursorEnd()
	}

	m.spinner.Style = m.palette().spinnerStyle()

	return m
}

// Init starts geolocation and, if the search box was pre-filled, its lookup
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, resolveLocation(m.locator, m.locateSeq)}

	if query := m.searchInput.Value(); geocoding.IsSearchable(query) {
		// seq 0 is current until the first edit
		cmds = append(cmds, debounceSuggest(m.suggestSeq, query, m.debounce))
	}

	return tea.Batch(cmds...)
}

// State reports what the screen is showing
func (m Model) State() AppState {
	switch {
	case m.loading:
		return StateLoading
	case m.err != "":
		return StateError
	case m.reading != nil:
		return StateDisplay
	}
	return StateIdle
}

// Update handles messages and persists any preference the update changed
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.persisted()

	next, cmd := m.update(msg)

	save := persistChanges(next.prefs, before, next.persisted())
	switch {
	case save == nil:
		return next, cmd
	case cmd == nil:
		return next, save
	}
	return next, tea.Batch(cmd, save)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case locationMsg:
		if msg.seq != m.locateSeq {
			m.logger.Debug().Int("seq", msg.seq).Msg("discarding superseded location result")
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("geolocation unavailable")
			m.err = msgLocationDenied
			m.loading = false
			return m, nil
		}
		return m.startPollutionFetch(msg.coords.Lat, msg.coords.Lon, RegionName)

	case suggestDebounceMsg:
		if msg.seq != m.suggestSeq {
			return m, nil
		}
		return m.startSuggestionLookup(msg.query)

	case suggestionsMsg:
		if msg.seq != m.suggestSeq {
			return m, nil
		}
		m.releaseSuggestion()
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.logger.Error().Err(msg.err).Str("query", msg.query).Msg("fetching city suggestions")
			}
			m.setSuggestions(nil)
			return m, nil
		}
		m.setSuggestions(msg.suggestions)
		return m, nil

	case pollutionFetchedMsg:
		if msg.id != m.fetchSeq {
			m.logger.Debug().Int("id", msg.id).Str("city", msg.name).Msg("discarding superseded pollution response")
			return m, nil
		}
		m.releaseFetch()
		m.loading = false
		if msg.err == nil && msg.reading == nil {
			msg.err = airquality.ErrNoReading
		}
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Str("city", msg.name).Msg("fetching pollution data")
			m.err = msgLoadFailed
			return m, nil
		}
		m.reading = msg.reading
		m.cityName = msg.name
		m.err = ""
		entry := models.NewSearchHistoryEntry(msg.name, msg.reading.AQI, m.clock())
		m.lastSearch = &entry
		m.logger.Info().Str("city", msg.name).Int("aqi", msg.reading.AQI).Msg("pollution reading updated")
		return m, nil

	case persistFailedMsg:
		m.logger.Error().Err(msg.err).Str("key", msg.key).Msg("saving preference")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.releaseSuggestion()
		m.releaseFetch()
		return m, tea.Quit

	case tea.KeyCtrlT:
		m.theme = m.theme.Toggle()
		m.spinner.Style = m.palette().spinnerStyle()
		if len(m.suggestions) > 0 {
			cursor := m.suggestionList.Index()
			m.setSuggestions(m.suggestions)
			m.suggestionList.Select(cursor)
		}
		return m, nil

	case tea.KeyCtrlL:
		m.loading = true
		m.locateSeq++
		return m, tea.Batch(m.spinner.Tick, resolveLocation(m.locator, m.locateSeq))

	case tea.KeyUp:
		if len(m.suggestions) > 0 {
			m.suggestionList.CursorUp()
		}
		return m, nil

	case tea.KeyDown:
		if len(m.suggestions) > 0 {
			m.suggestionList.CursorDown()
		}
		return m, nil

	case tea.KeyEnter:
		if len(m.suggestions) == 0 {
			return m, nil
		}
		if item, ok := m.suggestionList.SelectedItem().(suggestionItem); ok {
			return m.startPollutionFetch(item.city.Lat, item.city.Lon, item.city.DisplayName())
		}
		return m, nil

	case tea.KeyEsc:
		if m.searchInput.Value() == "" && len(m.suggestions) == 0 {
			return m, nil
		}
		m.searchInput.SetValue("")
		return m.queryChanged("")
	}

	// Update text input
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if value := m.searchInput.Value(); value != before {
		var lookup tea.Cmd
		m, lookup = m.queryChanged(value)
		return m, tea.Batch(cmd, lookup)
	}

	return m, cmd
}

// queryChanged invalidates pending lookups and schedules a new one when the
// query is long enough; shorter input clears the suggestions immediately.
func (m Model) queryChanged(value string) (Model, tea.Cmd) {
	m.suggestSeq++
	m.releaseSuggestion()

	if !geocoding.IsSearchable(value) {
		m.setSuggestions(nil)
		return m, nil
	}

	return m, debounceSuggest(m.suggestSeq, value, m.debounce)
}

// startSuggestionLookup fires the autosuggest request for the current edit
func (m Model) startSuggestionLookup(query string) (Model, tea.Cmd) {
	if m.suggester == nil {
		return m, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), suggestionTimeout)
	m.cancelSuggest = cancel

	return m, fetchSuggestions(ctx, m.suggester, m.suggestSeq, query)
}

// startPollutionFetch supersedes any in-flight fetch and requests a new reading
func (m Model) startPollutionFetch(lat, lon float64, name string) (Model, tea.Cmd) {
	m.releaseFetch()
	m.fetchSeq++
	m.locateSeq++

	m.loading = true
	m.searchInput.SetValue("")
	m.suggestSeq++
	m.releaseSuggestion()
	m.setSuggestions(nil)

	if m.pollution == nil {
		m.loading = false
		m.err = msgLoadFailed
		return m, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pollutionTimeout)
	m.cancelFetch = cancel

	m.logger.Debug().Int("id", m.fetchSeq).Str("city", name).Msg("fetching pollution data")

	return m, tea.Batch(m.spinner.Tick, fetchPollution(ctx, m.pollution, m.fetchSeq, lat, lon, name))
}

// setSuggestions replaces the suggestion list
func (m *Model) setSuggestions(suggestions []models.CitySuggestion) {
	m.suggestions = suggestions
	m.suggestionList = createSuggestionList(suggestions, suggestionListWidth, len(suggestions)*suggestionItemHeight, m.palette())
}

func (m *Model) releaseSuggestion() {
	if m.cancelSuggest != nil {
		m.cancelSuggest()
		m.cancelSuggest = nil
	}
}

func (m *Model) releaseFetch() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// Theme returns the active theme
func (m Model) Theme() models.Theme {
	return m.theme
}

// LastSearch returns the most recent successful search, if any
func (m Model) LastSearch() *models.SearchHistoryEntry {
	return m.lastSearch
}

// Reading returns the reading on screen and its location label
func (m Model) Reading() (*models.PollutionReading, string) {
	return m.reading, m.cityName
}

// Err returns the error banner text, empty when there is none
func (m Model) Err() string {
	return m.err
}
