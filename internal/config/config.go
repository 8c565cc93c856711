// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"go.ngs.io/sst-indices/internal/domain"
)

// Supported SST file formats.
const (
	FormatNetCDF = "netcdf"
	FormatCSV    = "csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port string

	// SST source.
	SSTPath     string
	SSTFormat   string
	SSTVariable string

	// Axis names inside the SST source.
	LonName  string
	LatName  string
	TimeName string

	// Index defaults applied when a request omits them.
	DefaultWindow int
	DefaultRegion string

	LogLevel  string
	LogFormat string

	// Empty means all origins are allowed.
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables (optionally .env),
// applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		SSTPath:       os.Getenv("SST_PATH"),
		SSTFormat:     strings.ToLower(os.Getenv("SST_FORMAT")),
		SSTVariable:   getEnv("SST_VARIABLE", "sst"),
		LonName:       getEnv("LON_NAME", "lon"),
		LatName:       getEnv("LAT_NAME", "lat"),
		TimeName:      getEnv("TIME_NAME", "time"),
		DefaultRegion: getEnv("DEFAULT_REGION", "3.4"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	window, err := strconv.Atoi(getEnv("DEFAULT_WINDOW", "5"))
	if err != nil || window < 0 {
		return nil, fmt.Errorf("invalid DEFAULT_WINDOW: %q", os.Getenv("DEFAULT_WINDOW"))
	}
	cfg.DefaultWindow = window

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if cfg.SSTPath == "" {
		return nil, errors.New("SST_PATH is required")
	}
	if cfg.SSTFormat == "" {
		cfg.SSTFormat = InferFormat(cfg.SSTPath)
	}
	if cfg.SSTFormat != FormatNetCDF && cfg.SSTFormat != FormatCSV {
		return nil, fmt.Errorf("invalid SST_FORMAT: %q (expected %s or %s)", cfg.SSTFormat, FormatNetCDF, FormatCSV)
	}
	if err := domain.ValidateIndexName(cfg.DefaultRegion); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_REGION: %w", err)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT: %q", cfg.LogFormat)
	}

	return cfg, nil
}

// IndexDefaults returns the domain options implied by the configuration.
func (c *Config) IndexDefaults() domain.Options {
	return domain.Options{
		Lon:    c.LonName,
		Lat:    c.LatName,
		Time:   c.TimeName,
		Window: c.DefaultWindow,
		Region: c.DefaultRegion,
	}
}

// ListenAddr returns the host:port string for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%s", c.Port)
}

// InferFormat guesses the SST format from a file extension. Unknown
// extensions are treated as NetCDF.
func InferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	default:
		return FormatNetCDF
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
