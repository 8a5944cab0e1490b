package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
	"github.com/ngmaloney/ecotrack-terminal/internal/preferences"
)

// PreferenceStore loads and saves the durable user preferences
type PreferenceStore interface {
	LoadTheme() (models.Theme, error)
	SaveTheme(models.Theme) error
	LoadLastSearch() (*models.SearchHistoryEntry, error)
	SaveLastSearch(models.SearchHistoryEntry) error
}

// persisted is the slice of model state that outlives the session
type persisted struct {
	theme      models.Theme
	lastSearch *models.SearchHistoryEntry
}

func (m Model) persisted() persisted {
	return persisted{theme: m.theme, lastSearch: m.lastSearch}
}

// prefWriter serializes preference writes. Each write carries the generation
// it was issued at; one older than the last applied for its key is skipped.
type prefWriter struct {
	store PreferenceStore

	mu      sync.Mutex
	issued  map[string]uint64 // only touched from Update
	applied map[string]uint64
}

func newPrefWriter(store PreferenceStore) *prefWriter {
	if store == nil {
		return nil
	}
	return &prefWriter{
		store:   store,
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// save returns a command that runs write unless a newer write for key has
// already been applied
func (w *prefWriter) save(key string, write func(PreferenceStore) error) tea.Cmd {
	w.issued[key]++
	gen := w.issued[key]

	return func() tea.Msg {
		w.mu.Lock()
		defer w.mu.Unlock()

		if gen <= w.applied[key] {
			return nil
		}
		w.applied[key] = gen
		if err := write(w.store); err != nil {
			return persistFailedMsg{key: key, err: err}
		}
		return nil
	}
}

// persistChanges returns the writes needed to go from prev to next, or nil
func persistChanges(w *prefWriter, prev, next persisted) tea.Cmd {
	if w == nil {
		return nil
	}

	var cmds []tea.Cmd

	if prev.theme != next.theme {
		theme := next.theme
		cmds = append(cmds, w.save(preferences.KeyTheme, func(s PreferenceStore) error {
			return s.SaveTheme(theme)
		}))
	}

	// Every successful fetch allocates a new entry, so identity marks a new search.
	if next.lastSearch != nil && next.lastSearch != prev.lastSearch {
		entry := *next.lastSearch
		cmds = append(cmds, w.save(preferences.KeyLastSearch, func(s PreferenceStore) error {
			return s.SaveLastSearch(entry)
		}))
	}

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}
