package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ngmaloney/ecotrack-terminal/internal/httpclient"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

const (
	// DefaultBaseURL is the OpenWeatherMap geocoding API
	DefaultBaseURL = "https://api.openweathermap.org/geo/1.0"

	// MaxSuggestions caps how many candidates a lookup returns
	MaxSuggestions = 5

	// MinQueryLength is the shortest query worth sending; shorter input yields no suggestions
	MinQueryLength = 3
)

// Suggester returns city candidates for a partially typed name
type Suggester interface {
	Suggest(ctx context.Context, partial string) ([]models.CitySuggestion, error)
}

// Config configures a Geocoder
type Config struct {
	APIKey     string
	BaseURL    string             // optional, defaults to DefaultBaseURL
	HTTPClient *httpclient.Client // optional
	Limiter    *rate.Limiter      // optional, defaults to 1 req/s with a burst of 2
	Logger     zerolog.Logger
}

// Geocoder looks up city names using the OpenWeatherMap direct geocoding endpoint
type Geocoder struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewGeocoder creates a new geocoder
func NewGeocoder(cfg Config) *Geocoder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.DefaultConfig("geocoding"))
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(1), 2)
	}

	return &Geocoder{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     cfg.Logger,
	}
}

// directResponse is one element of the geocoding API response
type directResponse struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

// Suggest returns up to MaxSuggestions cities matching partial.
// Queries shorter than MinQueryLength return no suggestions and make no request.
func (g *Geocoder) Suggest(ctx context.Context, partial string) ([]models.CitySuggestion, error) {
	query := strings.TrimSpace(partial)
	if !IsSearchable(query) {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprint(MaxSuggestions))
	params.Set("appid", g.apiKey)

	reqURL := fmt.Sprintf("%s/direct?%s", g.baseURL, params.Encode())

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var results []directResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(results) > MaxSuggestions {
		results = results[:MaxSuggestions]
	}

	suggestions := make([]models.CitySuggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, models.CitySuggestion{
			Name:    r.Name,
			State:   r.State,
			Country: r.Country,
			Lat:     r.Lat,
			Lon:     r.Lon,
		})
	}

	g.logger.Debug().
		Str("query", query).
		Int("results", len(suggestions)).
		Msg("geocoding lookup")

	return suggestions, nil
}

// IsSearchable reports whether input is long enough to look up
func IsSearchable(input string) bool {
	return len([]rune(strings.TrimSpace(input))) >= MinQueryLength
}
