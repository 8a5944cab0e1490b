package models

import "time"

// Pollutant codes reported by the air pollution API, concentrations in µg/m³
const (
	PollutantCO   = "co"
	PollutantNO   = "no"
	PollutantNO2  = "no2"
	PollutantO3   = "o3"
	PollutantSO2  = "so2"
	PollutantPM25 = "pm2_5"
	PollutantPM10 = "pm10"
	PollutantNH3  = "nh3"
)

// Components maps a pollutant code to its concentration
type Components map[string]float64

// Get returns the concentration for code, 0 when the API did not report it
func (c Components) Get(code string) float64 {
	return c[code]
}

// PollutionReading is a single air quality observation for a coordinate.
// A reading is never mutated after it is built; each fetch replaces it.
type PollutionReading struct {
	AQI        int // 1 (best) to 5 (worst)
	Components Components
	CapturedAt time.Time // zero if the API omitted it
}

// ChartPoint is one bar of the chemical composition chart
type ChartPoint struct {
	Name  string
	Value float64
}

// ChartSeries derives the composition chart from a reading.
// CO is scaled down by 100 so it shares an axis with the other pollutants.
func ChartSeries(r *PollutionReading) []ChartPoint {
	if r == nil {
		return nil
	}

	return []ChartPoint{
		{Name: "CO/100", Value: r.Components.Get(PollutantCO) / 100},
		{Name: "NO2", Value: r.Components.Get(PollutantNO2)},
		{Name: "O3", Value: r.Components.Get(PollutantO3)},
		{Name: "PM10", Value: r.Components.Get(PollutantPM10)},
	}
}
