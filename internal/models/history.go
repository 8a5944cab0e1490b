package models

import "time"

// HistoryTimeLayout formats the local time a search completed
const HistoryTimeLayout = "15:04:05"

// SearchHistoryEntry records the most recent successful search.
// Only one entry is ever kept.
type SearchHistoryEntry struct {
	Name string `json:"name"`
	AQI  int    `json:"aqi"`
	Time string `json:"time"`
}

// NewSearchHistoryEntry builds the entry for a reading fetched at t
func NewSearchHistoryEntry(name string, aqi int, t time.Time) SearchHistoryEntry {
	return SearchHistoryEntry{
		Name: name,
		AQI:  aqi,
		Time: t.Local().Format(HistoryTimeLayout),
	}
}
