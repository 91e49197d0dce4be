// Package config loads service settings from environment variables, with a
// local .env file as a development convenience. Values are read once at
// startup and are immutable afterwards.
package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Geocoding (Nominatim-compatible endpoint).
	GeocodeBaseURL   string        `envconfig:"GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	GeocodeTimeout   time.Duration `envconfig:"GEOCODE_TIMEOUT" default:"5s"`
	GeocodeCacheSize int           `envconfig:"GEOCODE_CACHE_SIZE" default:"1000"`

	// Forecast (Open-Meteo-compatible endpoint).
	ForecastBaseURL string        `envconfig:"FORECAST_BASE_URL" default:"https://api.open-meteo.com"`
	ForecastTimeout time.Duration `envconfig:"FORECAST_TIMEOUT" default:"10s"`

	// Kafka audit trail. Disabled by default; the guardrail falls back to
	// log-only auditing.
	AuditKafkaEnabled bool     `envconfig:"AUDIT_KAFKA_ENABLED" default:"false"`
	KafkaBrokers      []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaAuditTopic   string   `envconfig:"KAFKA_AUDIT_TOPIC" default:"guardrail-audit"`
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first if present;
// real environment variables win over its entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GeocodeBaseURL == "" {
		return errors.New("GEOCODE_BASE_URL is required")
	}
	if c.ForecastBaseURL == "" {
		return errors.New("FORECAST_BASE_URL is required")
	}
	if c.GeocodeTimeout <= 0 {
		return errors.New("invalid GEOCODE_TIMEOUT")
	}
	if c.ForecastTimeout <= 0 {
		return errors.New("invalid FORECAST_TIMEOUT")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if c.GeocodeCacheSize <= 0 {
		return errors.New("invalid GEOCODE_CACHE_SIZE")
	}
	if c.AuditKafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("AUDIT_KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if c.KafkaAuditTopic == "" {
			return errors.New("AUDIT_KAFKA_ENABLED is true but KAFKA_AUDIT_TOPIC is not set")
		}
	}
	return nil
}
