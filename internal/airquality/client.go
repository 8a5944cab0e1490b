// Package airquality fetches air pollution readings and classifies them.
package airquality

import (
	"context"
	"errors"

	"github.com/ngmaloney/ecotrack-terminal/internal/models"
)

// ErrNoReading is returned when the API answers without any measurement
var ErrNoReading = errors.New("no pollution reading returned")

// Client fetches the current air pollution reading for a coordinate
type Client interface {
	CurrentPollution(ctx context.Context, lat, lon float64) (*models.PollutionReading, error)
}
