package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Dataset source kinds.
const (
	SourceURL      = "url"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// DefaultDatasetURL is the published employee travel-time analysis.
const DefaultDatasetURL = "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/Travel%20Times_Employees_Complete_Analysis_Results-1EbbTKE16GkNZBduF6fz5dH70uwWOM.csv"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Dataset  DatasetConfig
	Upload   UploadConfig
	Space    SpaceConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds PostgreSQL connection configuration.
// It is only used when the dataset source is postgres.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// DatasetConfig selects where the default commute dataset is read from.
type DatasetConfig struct {
	Source       string
	URL          string
	Path         string
	Table        string
	FetchTimeout time.Duration
}

// UploadConfig bounds dataset uploads.
type UploadConfig struct {
	MaxBytes      int64
	RatePerMinute int
}

// SpaceConfig configures the space planner.
type SpaceConfig struct {
	// CatalogPath is an optional YAML catalog replacing the built-in one.
	CatalogPath string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "campusplan")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("DATASET_SOURCE", SourceURL)
	v.SetDefault("DATASET_URL", DefaultDatasetURL)
	v.SetDefault("DATASET_PATH", "")
	v.SetDefault("DATASET_TABLE", "commute_records")
	v.SetDefault("DATASET_FETCH_TIMEOUT", "30s")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("UPLOAD_RATE_PER_MINUTE", 10)
	v.SetDefault("SPACE_CATALOG_PATH", "")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Dataset: DatasetConfig{
			Source:       strings.ToLower(strings.TrimSpace(v.GetString("DATASET_SOURCE"))),
			URL:          v.GetString("DATASET_URL"),
			Path:         v.GetString("DATASET_PATH"),
			Table:        v.GetString("DATASET_TABLE"),
			FetchTimeout: v.GetDuration("DATASET_FETCH_TIMEOUT"),
		},
		Upload: UploadConfig{
			MaxBytes:      v.GetInt64("UPLOAD_MAX_BYTES"),
			RatePerMinute: v.GetInt("UPLOAD_RATE_PER_MINUTE"),
		},
		Space: SpaceConfig{
			CatalogPath: v.GetString("SPACE_CATALOG_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Dataset.validate(); err != nil {
		return err
	}

	// Database settings only matter for the postgres source
	if c.Dataset.Source == SourcePostgres {
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	if c.Upload.MaxBytes < 1 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Upload.RatePerMinute < 1 {
		return fmt.Errorf("UPLOAD_RATE_PER_MINUTE must be at least 1")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

func (d DatasetConfig) validate() error {
	switch d.Source {
	case SourceURL:
		if d.URL == "" {
			return fmt.Errorf("DATASET_URL is required when DATASET_SOURCE is %s", SourceURL)
		}
	case SourceFile:
		if d.Path == "" {
			return fmt.Errorf("DATASET_PATH is required when DATASET_SOURCE is %s", SourceFile)
		}
	case SourcePostgres:
		if d.Table == "" {
			return fmt.Errorf("DATASET_TABLE is required when DATASET_SOURCE is %s", SourcePostgres)
		}
	default:
		return fmt.Errorf("DATASET_SOURCE must be one of %s, %s, %s (got %q)", SourceURL, SourceFile, SourcePostgres, d.Source)
	}

	if d.FetchTimeout <= 0 {
		return fmt.Errorf("DATASET_FETCH_TIMEOUT must be positive")
	}
	return nil
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
