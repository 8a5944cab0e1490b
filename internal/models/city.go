package models

// CitySuggestion is a geocoding candidate offered while the user types
type CitySuggestion struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"` // not every country reports one
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// DisplayName is the label used once the city is selected (e.g. "London, GB")
func (c CitySuggestion) DisplayName() string {
	return c.Name + ", " + c.Country
}

// Region is the secondary line shown under the name in the suggestion list
func (c CitySuggestion) Region() string {
	if c.State != "" {
		return c.State + ", " + c.Country
	}
	return c.Country
}
