package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/ngmaloney/ecotrack-terminal/internal/airquality"
	"github.com/ngmaloney/ecotrack-terminal/internal/config"
	"github.com/ngmaloney/ecotrack-terminal/internal/database"
	"github.com/ngmaloney/ecotrack-terminal/internal/geocoding"
	"github.com/ngmaloney/ecotrack-terminal/internal/geolocation"
	"github.com/ngmaloney/ecotrack-terminal/internal/httpclient"
	"github.com/ngmaloney/ecotrack-terminal/internal/logging"
	"github.com/ngmaloney/ecotrack-terminal/internal/preferences"
	"github.com/ngmaloney/ecotrack-terminal/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires the application and returns the process exit code
func run(args []string) int {
	flags := flag.NewFlagSet("ecotrack", flag.ContinueOnError)
	dbPath := flags.String("db", "", "Path to the preferences database (overrides "+config.EnvDBPath+")")
	logPath := flags.String("log", "", "Path to the log file (overrides "+config.EnvLogPath+")")
	noLocate := flags.Bool("no-locate", false, "Skip IP geolocation at startup and search for a city instead")
	city := flags.String("city", "", "Pre-fill the search box with a city name (e.g., \"London\")")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return 1
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Printf("Error: %s must be set (in the environment or a .env file).\n", config.EnvAPIKey)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		return 1
	}

	logger, logFile, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Error opening log: %v\n", err)
		return 1
	}
	defer logFile.Close()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.DBPath).Msg("opening database")
		fmt.Printf("Error opening database: %v\n", err)
		return 1
	}
	defer db.Close()

	owm := newHTTPClient(airquality.ProviderName, logger)

	opts := ui.Options{
		Suggester: geocoding.NewGeocoder(geocoding.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.GeoBaseURL,
			HTTPClient: owm,
			Logger:     logger,
		}),
		Pollution: airquality.NewOpenWeatherClient(airquality.OpenWeatherConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.DataBaseURL,
			HTTPClient: owm,
			Logger:     logger,
		}),
		Locator:      geolocation.DisabledResolver{},
		Store:        preferences.NewStore(db, logger),
		Logger:       logger,
		InitialQuery: *city,
	}

	if !*noLocate {
		url := cfg.GeoIPURL
		if url == "" {
			url = geolocation.DefaultURL
		}
		opts.Locator = geolocation.NewIPResolver(url, newHTTPClient("geoip", logger), logger)
	}

	logger.Info().Bool("locate", !*noLocate).Str("db", cfg.DBPath).Msg("starting ecotrack")

	p := tea.NewProgram(ui.NewModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("running application")
		fmt.Printf("Error running application: %v\n", err)
		return 1
	}

	return 0
}

// newHTTPClient builds a circuit-breaking client that logs breaker transitions
func newHTTPClient(name string, logger zerolog.Logger) *httpclient.Client {
	cfg := httpclient.DefaultConfig(name)
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
	}
	return httpclient.New(cfg)
}
