package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Registration  RegistrationConfig  `yaml:"registration"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	BaseURL        string   `yaml:"base_url"`
	// InternalToken guards the server-to-server provisioning endpoint.
	InternalToken string `yaml:"internal_token"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
}

// RegistrationConfig holds tunables for the registration pipeline.
type RegistrationConfig struct {
	// IdentityWaitAttempts bounds the identity-visibility poll after signup.
	IdentityWaitAttempts int           `yaml:"identity_wait_attempts"`
	IdentityWaitDelay    time.Duration `yaml:"identity_wait_delay"`
	// ProvisionAttempts bounds the profile upsert retry on referential-timing errors.
	ProvisionAttempts int `yaml:"provision_attempts"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment-variable overrides. A missing file is not an error as long as the
// required values arrive via the environment.
func LoadConfig(filename string) (*Config, error) {
	// A local .env is optional; ignore a missing file.
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("HTTP_BASE_URL"); v != "" {
		cfg.HTTP.BaseURL = v
	}
	if v := os.Getenv("INTERNAL_API_TOKEN"); v != "" {
		cfg.HTTP.InternalToken = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.DefaultTTL = d
		}
	}
	if v := os.Getenv("JWT_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.RefreshTTL = d
		}
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("IDENTITY_WAIT_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Registration.IdentityWaitAttempts = n
		}
	}
	if v := os.Getenv("IDENTITY_WAIT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Registration.IdentityWaitDelay = d
		}
	}
	if v := os.Getenv("PROVISION_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Registration.ProvisionAttempts = n
		}
	}

	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.BaseURL == "" {
		cfg.HTTP.BaseURL = "http://localhost:8080"
	}
	if cfg.JWT.DefaultTTL == 0 {
		cfg.JWT.DefaultTTL = 24 * time.Hour
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.Registration.IdentityWaitAttempts == 0 {
		cfg.Registration.IdentityWaitAttempts = 10
	}
	if cfg.Registration.IdentityWaitDelay == 0 {
		cfg.Registration.IdentityWaitDelay = 500 * time.Millisecond
	}
	if cfg.Registration.ProvisionAttempts == 0 {
		cfg.Registration.ProvisionAttempts = 3
	}
}
