// Package httpclient wraps outbound API calls in a circuit breaker so a failing
// upstream is reported immediately instead of stalling every keystroke.
package httpclient

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config holds settings for a Client.
type Config struct {
	// Name identifies the breaker in state-change callbacks.
	Name string

	// Timeout bounds a single HTTP call. Default: 10 seconds
	Timeout time.Duration

	// OpenTimeout is how long the breaker stays open before probing again.
	// Default: 30 seconds
	OpenTimeout time.Duration

	// ReadyToTrip decides when to open. If nil, DefaultReadyToTrip is used.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is called when the breaker changes state.
	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)

	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// DefaultConfig returns defaults for the named client.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		Timeout:     10 * time.Second,
		OpenTimeout: 30 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
	}
}

// DefaultReadyToTrip opens after 3 consecutive failures.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	return counts.ConsecutiveFailures >= 3
}

// Client executes requests through a circuit breaker. Each call is a single
// attempt; nothing is retried.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = DefaultReadyToTrip
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: cfg.ReadyToTrip,
		// Cancelled requests are the user typing ahead, not an upstream fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCancelled)
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

var errCancelled = errors.New("request cancelled")

// Do executes req. A 5xx response counts as a breaker failure but is still
// returned to the caller, which owns closing the body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var serverResp *http.Response

	resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
		r, err := c.httpClient.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, errors.Join(errCancelled, err)
			}
			return nil, err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			serverResp = r
			return nil, &ServerError{StatusCode: r.StatusCode}
		}
		return r, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		if serverResp != nil {
			return serverResp, nil
		}
		return nil, err
	}

	return resp, nil
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// ServerError represents an HTTP 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}
