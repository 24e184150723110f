package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	// Panel source
	PanelSource  string // csv, http or postgres
	PanelCSVPath string
	PanelURL     string

	// PostgreSQL connection (PANEL_SOURCE=postgres)
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string
	PGSSLMode  string

	// Multivariate isolation forest detector
	IsoForestTrees         int
	IsoForestSampleSize    int
	IsoForestContamination float64
	IsoForestSeed          int64

	// Per-series decomposition detector
	STLSeasonalPeriod int
	STLTrendWindow    int
	STLMultiplier     float64

	// Forecast-deviation detector
	ForecastIntervalWidth float64
	ForecastFourierOrder  int

	LogLevel string
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Config{
		PanelSource:  getEnvWithDefault("PANEL_SOURCE", "csv"),
		PanelCSVPath: getEnvWithDefault("PANEL_CSV_PATH", "data/quarterly_panel.csv"),
		PanelURL:     os.Getenv("PANEL_URL"),

		PGHost:     getEnvWithDefault("PG_HOST", "localhost"),
		PGPort:     getEnvWithDefault("PG_PORT", "5432"),
		PGUser:     getEnvWithDefault("PG_USER", "postgres"),
		PGPassword: os.Getenv("PG_PASSWORD"),
		PGDatabase: getEnvWithDefault("PG_DATABASE", "macrowatch"),
		PGSSLMode:  getEnvWithDefault("PG_SSLMODE", "disable"),

		IsoForestTrees:         getEnvIntWithDefault("ISOFOREST_TREES", 100),
		IsoForestSampleSize:    getEnvIntWithDefault("ISOFOREST_SAMPLE_SIZE", 256),
		IsoForestContamination: getEnvFloatWithDefault("ISOFOREST_CONTAMINATION", 0.10),
		IsoForestSeed:          getEnvInt64WithDefault("ISOFOREST_SEED", 42),

		STLSeasonalPeriod: getEnvIntWithDefault("STL_SEASONAL_PERIOD", 4),
		STLTrendWindow:    getEnvIntWithDefault("STL_TREND_WINDOW", 7),
		STLMultiplier:     getEnvFloatWithDefault("STL_MULTIPLIER", 2.5),

		ForecastIntervalWidth: getEnvFloatWithDefault("FORECAST_INTERVAL_WIDTH", 0.95),
		ForecastFourierOrder:  getEnvIntWithDefault("FORECAST_FOURIER_ORDER", 1),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
