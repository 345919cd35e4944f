// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the service.
type Config struct {
	Environment string
	HTTPAddr    string

	Database  Database
	Tracing   Tracing
	Bootstrap Bootstrap

	// PostcodeCheckRPM caps the public postcode endpoint per client IP.
	PostcodeCheckRPM int
}

// Database configures the gorm connection.
type Database struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// Tracing configures the OpenTelemetry exporter.
type Tracing struct {
	Enabled          bool
	ServiceName      string
	ServiceVersion   string
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Bootstrap controls first-run seeding.
type Bootstrap struct {
	EnsureDefaultAdmin  bool
	EnsureDefaultRoutes bool
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment, honouring a local .env file
// when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Environment: getEnv("APP_ENV", "development"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		Database: Database{
			Driver: getEnv("DB_DRIVER", "postgres"),
			DSN:    getEnv("DB_DSN", "host=localhost user=arocwaste dbname=arocwaste sslmode=disable"),
		},
		Tracing: Tracing{
			Enabled:          getBool("OTEL_ENABLED", false),
			ServiceName:      getEnv("OTEL_SERVICE_NAME", "arocwaste"),
			ServiceVersion:   getEnv("OTEL_SERVICE_VERSION", "dev"),
			ExporterEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ExporterProtocol: getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio:    getFloat("OTEL_TRACES_SAMPLER_RATIO", 0.1),
		},
		Bootstrap: Bootstrap{
			EnsureDefaultAdmin:  getBool("BOOTSTRAP_DEFAULT_ADMIN", true),
			EnsureDefaultRoutes: getBool("BOOTSTRAP_DEFAULT_ROUTES", true),
		},
		PostcodeCheckRPM: getInt("POSTCODE_CHECK_RPM", 60),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
