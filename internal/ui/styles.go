package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

var (
	// Brand colors
	colorBrand     = lipgloss.Color("#16A34A") // green-600
	colorBrandSoft = lipgloss.Color("#4ADE80") // green-400
	colorChart     = lipgloss.Color("#10B981") // emerald-500
	colorDanger    = lipgloss.Color("#EF4444") // red-500

	// Classification tokens
	colorTokens = map[string]lipgloss.Color{
		"emerald":     lipgloss.Color("#10B981"),
		"green":       lipgloss.Color("#22C55E"),
		"yellow":      lipgloss.Color("#EAB308"),
		"orange":      lipgloss.Color("#F97316"),
		"red":         lipgloss.Color("#EF4444"),
		"emerald-50":  lipgloss.Color("#ECFDF5"),
		"emerald-950": lipgloss.Color("#022C22"),
		"green-50":    lipgloss.Color("#F0FDF4"),
		"green-950":   lipgloss.Color("#052E16"),
		"yellow-50":   lipgloss.Color("#FEFCE8"),
		"yellow-950":  lipgloss.Color("#422006"),
		"orange-50":   lipgloss.Color("#FFF7ED"),
		"orange-950":  lipgloss.Color("#431407"),
		"red-50":      lipgloss.Color("#FEF2F2"),
		"red-950":     lipgloss.Color("#450A0A"),
	}
)

// palette holds the theme-dependent colors
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
	surface lipgloss.Color
	badge   lipgloss.Color
}

var (
	lightPalette = palette{
		text:    lipgloss.Color("#0F172A"), // slate-900
		muted:   lipgloss.Color("#64748B"), // slate-500
		border:  lipgloss.Color("#E2E8F0"), // slate-200
		surface: lipgloss.Color("#FFFFFF"),
		badge:   lipgloss.Color("#0F172A"),
	}

	darkPalette = palette{
		text:    lipgloss.Color("#F8FAFC"), // slate-50
		muted:   lipgloss.Color("#94A3B8"), // slate-400
		border:  lipgloss.Color("#1E293B"), // slate-800
		surface: lipgloss.Color("#0F172A"), // slate-900
		badge:   lipgloss.Color("#1E293B"),
	}
)

func (m Model) palette() palette {
	if m.theme == models.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// tokenColor resolves a classification token, falling back to the brand color
func tokenColor(token string) lipgloss.Color {
	if c, ok := colorTokens[token]; ok {
		return c
	}
	return colorBrand
}

func (p palette) spinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorBrandSoft)
}

func (p palette) mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.muted)
}

func (p palette) labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(p.muted).
		Bold(true)
}

func (p palette) searchBoxStyle(active bool) lipgloss.Style {
	border := p.border
	if active {
		border = colorBrandSoft
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(suggestionListWidth)
}

func (p palette) badgeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Foreground(p.text).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)
}

func (p palette) historyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(p.badge).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1).
		MarginTop(1)
}

func (p palette) panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(1, 2).
		MarginRight(1)
}

// Theme-independent styles
var (
	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDanger).
			Bold(true).
			Padding(0, 2)

	brandStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true).
			Italic(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Italic(true).
				Padding(0, 0, 1, 0)
)
