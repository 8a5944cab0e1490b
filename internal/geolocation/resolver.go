// Package geolocation finds the user's approximate position. A terminal has no
// permission prompt, so a disabled resolver stands in for a denied request.
package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ngmaloney/ecotrack-terminal/internal/httpclient"
)

// DefaultURL is the IP geolocation endpoint
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// ErrLocationDenied is returned whenever no position could be obtained
var ErrLocationDenied = errors.New("location denied")

// Coordinates is a resolved position
type Coordinates struct {
	Lat float64
	Lon float64
}

// Resolver obtains the current position. One attempt per call.
type Resolver interface {
	Resolve(ctx context.Context) (Coordinates, error)
}

// IPResolver approximates the position from the public IP address
type IPResolver struct {
	url        string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// NewIPResolver creates a resolver; an empty url selects DefaultURL
func NewIPResolver(url string, httpClient *httpclient.Client, logger zerolog.Logger) *IPResolver {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.DefaultConfig("geolocation"))
	}
	return &IPResolver{url: url, httpClient: httpClient, logger: logger}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Resolve returns the position or an error wrapping ErrLocationDenied
func (r *IPResolver) Resolve(ctx context.Context) (Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, http.NoBody)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: creating request: %v", ErrLocationDenied, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrLocationDenied, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: status %d", ErrLocationDenied, resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, fmt.Errorf("%w: decoding response: %v", ErrLocationDenied, err)
	}

	if body.Status != "success" {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrLocationDenied, body.Message)
	}

	r.logger.Debug().Float64("lat", body.Lat).Float64("lon", body.Lon).Msg("location resolved")

	return Coordinates{Lat: body.Lat, Lon: body.Lon}, nil
}

// DisabledResolver always refuses, used when the user opts out of location lookup
type DisabledResolver struct{}

// Resolve always returns ErrLocationDenied
func (DisabledResolver) Resolve(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrLocationDenied
}
