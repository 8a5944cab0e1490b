package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

// suggestionItem wraps a CitySuggestion for use in a list
type suggestionItem struct {
	city models.CitySuggestion
}

// FilterValue implements list.Item
func (s suggestionItem) FilterValue() string {
	return s.city.Name
}

// Title implements list.DefaultItem
func (s suggestionItem) Title() string {
	return s.city.Name
}

// Description implements list.DefaultItem
func (s suggestionItem) Description() string {
	return s.city.Region()
}

// createSuggestionList creates a list.Model from city suggestions
func createSuggestionList(cities []models.CitySuggestion, width, height int, p palette) list.Model {
	items := make([]list.Item, len(cities))
	for i, city := range cities {
		items[i] = suggestionItem{city: city}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(colorBrand).
		BorderForeground(colorBrand)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(colorBrandSoft).
		BorderForeground(colorBrand)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(p.text)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.Foreground(p.muted)

	l := list.New(items, delegate, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return l
}
