package airquality

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngmaloney/ecotrack-terminal/internal/httpclient"
	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

const (
	// ProviderName identifies this pollution provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap data API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

// OpenWeatherConfig holds configuration for the OpenWeatherMap pollution client.
type OpenWeatherConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *httpclient.Client

	Logger zerolog.Logger
}

// OpenWeatherClient implements Client using the OpenWeatherMap air pollution API.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// NewOpenWeatherClient creates a new pollution client.
func NewOpenWeatherClient(cfg OpenWeatherConfig) *OpenWeatherClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.DefaultConfig(ProviderName))
	}

	return &OpenWeatherClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *OpenWeatherClient) Name() string {
	return ProviderName
}

// CurrentPollution fetches the current reading for lat/lon. Single attempt.
func (c *OpenWeatherClient) CurrentPollution(ctx context.Context, lat, lon float64) (*models.PollutionReading, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)

	reqURL := fmt.Sprintf("%s/air_pollution?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var owmResp airPollutionResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(owmResp.List) == 0 {
		return nil, ErrNoReading
	}

	reading := toReading(&owmResp.List[0])

	c.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Int("aqi", reading.AQI).
		Msg("pollution reading fetched")

	return reading, nil
}

// toReading converts the first API list element to the domain model.
func toReading(item *airPollutionItem) *models.PollutionReading {
	components := make(models.Components, len(item.Components))
	for code, value := range item.Components {
		components[code] = value
	}

	reading := &models.PollutionReading{
		AQI:        item.Main.AQI,
		Components: components,
	}
	if item.Dt > 0 {
		reading.CapturedAt = time.Unix(item.Dt, 0)
	}

	return reading
}

// OpenWeatherMap API response structures.

type airPollutionResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	List []airPollutionItem `json:"list"`
}

type airPollutionItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		AQI int `json:"aqi"`
	} `json:"main"`
	Components map[string]float64 `json:"components"`
}
