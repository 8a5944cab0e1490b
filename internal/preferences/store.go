// Package preferences persists the theme flag and the last successful search.
package preferences

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

// Storage keys
const (
	KeyTheme      = "ecoTheme"
	KeyLastSearch = "lastEcoSearch"
)

// Store handles persistence of user preferences in the settings table.
// Malformed stored values are logged, deleted, and replaced by defaults.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore creates a store on an open database (see database.Open)
func NewStore(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// LoadTheme returns the saved theme, light when nothing valid is stored
func (s *Store) LoadTheme() (models.Theme, error) {
	raw, ok, err := s.get(KeyTheme)
	if err != nil || !ok {
		return models.ThemeLight, err
	}

	theme, err := models.ParseTheme(raw)
	if err != nil {
		s.discard(KeyTheme, err)
		return models.ThemeLight, nil
	}

	return theme, nil
}

// SaveTheme stores the theme
func (s *Store) SaveTheme(theme models.Theme) error {
	return s.set(KeyTheme, theme.String())
}

// LoadLastSearch returns the last search, nil when nothing valid is stored
func (s *Store) LoadLastSearch() (*models.SearchHistoryEntry, error) {
	raw, ok, err := s.get(KeyLastSearch)
	if err != nil || !ok {
		return nil, err
	}

	var entry models.SearchHistoryEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.discard(KeyLastSearch, err)
		return nil, nil
	}
	if entry.Name == "" {
		s.discard(KeyLastSearch, errors.New("missing name"))
		return nil, nil
	}

	return &entry, nil
}

// SaveLastSearch overwrites the stored search with entry
func (s *Store) SaveLastSearch(entry models.SearchHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding last search: %w", err)
	}
	return s.set(KeyLastSearch, string(data))
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// discard drops a value that could not be parsed
func (s *Store) discard(key string, cause error) {
	s.logger.Warn().Err(cause).Str("key", key).Msg("ignoring malformed stored value")

	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("deleting malformed value")
	}
}
