package ui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/ecotrack-terminal/internal/airquality"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

const (
	cardWidth   = 36
	chartHeight = 12
	// Below this terminal width the chart is stacked under the card
	sideBySideMinWidth = 100
)

// viewReading renders the AQI card next to the composition chart
func (m Model) viewReading(p palette) string {
	card := m.renderAQICard(p)

	chartWidth := m.width - cardWidth - 12
	if m.width < sideBySideMinWidth {
		chartWidth = m.width - 8
	}
	if chartWidth < 24 {
		chartWidth = 24
	}
	chart := m.renderChartPane(p, chartWidth)

	if m.width < sideBySideMinWidth {
		return lipgloss.JoinVertical(lipgloss.Left, card, chart)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, card, chart)
}

// renderAQICard renders the AQI number, its label and the health tip
func (m Model) renderAQICard(p palette) string {
	status := airquality.Classify(m.reading.AQI)
	accent := lipgloss.NewStyle().Foreground(tokenColor(status.Color)).Bold(true)

	var content strings.Builder
	content.WriteString(p.labelStyle().Italic(true).Render("≋ AIR QUALITY INDEX"))
	content.WriteString("\n\n")
	content.WriteString(accent.Render(fmt.Sprintf("%d", m.reading.AQI)))
	content.WriteString(p.mutedStyle().Bold(true).Italic(true).Render(" AQI"))
	content.WriteString("\n")
	content.WriteString(accent.Render(strings.ToUpper(status.Label)))
	content.WriteString("\n\n")
	content.WriteString(p.labelStyle().Render("DICA DE SAÚDE"))
	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Foreground(p.text).Width(cardWidth - 6).Render(status.Tip))

	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(tokenColor(status.Color)).
		Background(tokenColor(status.BackgroundFor(m.theme))).
		Padding(1, 2).
		MarginRight(1).
		Width(cardWidth).
		Render(content.String())
}

// renderChartPane renders the chemical composition chart with its values
func (m Model) renderChartPane(p palette, width int) string {
	series := models.ChartSeries(m.reading)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		sectionHeaderStyle.Foreground(p.muted).Render("⚗ COMPOSIÇÃO QUÍMICA"),
		"  ",
		p.mutedStyle().Italic(true).Render("Unidade: µg/m³"),
	)

	values := make([]string, len(series))
	for i, pt := range series {
		values[i] = fmt.Sprintf("%s %.2f", pt.Name, pt.Value)
	}

	return p.panelStyle().Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		renderChart(series, width-6, chartHeight),
		p.mutedStyle().Render(strings.Join(values, " • ")),
	))
}

// renderChart draws the series as a bar chart
func renderChart(series []models.ChartPoint, width, height int) string {
	barStyle := lipgloss.NewStyle().Foreground(colorChart)

	data := make([]barchart.BarData, 0, len(series))
	for _, pt := range series {
		data = append(data, barchart.BarData{
			Label: pt.Name,
			Values: []barchart.BarValue{
				{Name: pt.Name, Value: pt.Value, Style: barStyle},
			},
		})
	}

	bc := barchart.New(width, height,
		barchart.WithDataSet(data),
		barchart.WithBarGap(2),
	)
	bc.Draw()

	return bc.View()
}
