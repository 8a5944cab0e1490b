// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/ngmaloney/ecotrack-terminal/internal/database"
)

// Environment variables
const (
	EnvAPIKey      = "OPENWEATHER_API_KEY"
	EnvDBPath      = "ECOTRACK_DB_PATH"
	EnvLogPath     = "ECOTRACK_LOG_PATH"
	EnvLogLevel    = "ECOTRACK_LOG_LEVEL"
	EnvDataBaseURL = "OPENWEATHER_BASE_URL"
	EnvGeoBaseURL  = "OPENWEATHER_GEO_URL"
	EnvGeoIPURL    = "ECOTRACK_GEOIP_URL"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured
var ErrMissingAPIKey = errors.New(EnvAPIKey + " is not set")

// Config holds application settings
type Config struct {
	APIKey      string
	DBPath      string
	LogPath     string
	LogLevel    string
	DataBaseURL string // empty selects the client default
	GeoBaseURL  string
	GeoIPURL    string
}

// Load reads envFiles (default ".env") if present, then the environment.
// A missing .env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := Config{
		APIKey:      os.Getenv(EnvAPIKey),
		DBPath:      getEnv(EnvDBPath, database.DBPath()),
		LogPath:     getEnv(EnvLogPath, filepath.Join("data", "ecotrack.log")),
		LogLevel:    getEnv(EnvLogLevel, "info"),
		DataBaseURL: os.Getenv(EnvDataBaseURL),
		GeoBaseURL:  os.Getenv(EnvGeoBaseURL),
		GeoIPURL:    os.Getenv(EnvGeoIPURL),
	}

	return cfg, nil
}

// Validate checks required settings
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
