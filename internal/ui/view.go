package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Carregando..."
	}

	p := m.palette()

	var sections []string
	sections = append(sections, m.viewHeader(p), "")
	sections = append(sections, m.viewSearch(p))
	sections = append(sections, m.viewBadges(p), "")

	if m.err != "" {
		sections = append(sections, errorStyle.Render("✗ "+m.err), "")
	}

	switch {
	case m.loading:
		sections = append(sections, m.viewLoading(p))
	case m.reading != nil:
		sections = append(sections, m.viewReading(p))
	}

	sections = append(sections, "", m.viewFooter(p))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Fill the terminal with the theme background
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(p.surface),
	)
}

// viewHeader renders the brand and theme indicator
func (m Model) viewHeader(p palette) string {
	eco := lipgloss.NewStyle().Foreground(p.text).Bold(true).Italic(true).Render("ECO")
	track := brandStyle.Render("TRACK")

	indicator := "☾ escuro"
	if m.theme == models.ThemeLight {
		indicator = "☀ claro"
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		brandStyle.Render("🍃 "), eco, track,
		"   ",
		p.mutedStyle().Render(indicator),
	)
}

// viewSearch renders the search box and, below it, any suggestions
func (m Model) viewSearch(p palette) string {
	box := p.searchBoxStyle(m.searchInput.Value() != "").Render(m.searchInput.View())

	if len(m.suggestions) == 0 {
		return box
	}

	list := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Width(suggestionListWidth).
		Render(m.suggestionList.View())

	return lipgloss.JoinVertical(lipgloss.Left, box, list)
}

// viewBadges renders the current location and the last search
func (m Model) viewBadges(p palette) string {
	location := p.badgeStyle().Render("📍 " + m.cityName)

	if m.lastSearch == nil {
		return location
	}

	history := p.historyStyle().Render(strings.ToUpper(
		fmt.Sprintf("⟲ %s • AQI %d", m.lastSearch.Name, m.lastSearch.AQI),
	))

	return lipgloss.JoinHorizontal(lipgloss.Top, location, history)
}

// viewLoading renders the loading panel
func (m Model) viewLoading(p palette) string {
	label := p.labelStyle().Render("ANALISANDO ATMOSFERA")
	return lipgloss.NewStyle().
		Padding(2, 4).
		Render(fmt.Sprintf("%s %s", m.spinner.View(), label))
}

// viewFooter renders the tagline and key help
func (m Model) viewFooter(p palette) string {
	tagline := p.mutedStyle().Italic(true).Render("REAL-TIME ENVIRONMENTAL INTELLIGENCE ENGINE")
	help := p.mutedStyle().Render("↑/↓: Sugestões • Enter: Selecionar • Esc: Limpar • Ctrl+T: Tema • Ctrl+L: Localizar • Ctrl+C: Sair")
	return lipgloss.JoinVertical(lipgloss.Left, tagline, help)
}
