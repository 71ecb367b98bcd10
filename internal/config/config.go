package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Reminders ReminderConfig  `yaml:"reminders"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// ReminderConfig controls the scheduled training reminders. Schedule is a
// cron spec with a leading seconds field.
type ReminderConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

type AnalyticsConfig struct {
	Timezone            string `yaml:"timezone"`
	DetectorConcurrency int    `yaml:"detector_concurrency"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Location resolves the configured timezone used for calendar days.
func (a AnalyticsConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix MUSCLEGRAM_ and underscore-separated paths:
//
//	MUSCLEGRAM_SERVER_HOST, MUSCLEGRAM_SERVER_PORT,
//	MUSCLEGRAM_DB_DRIVER, MUSCLEGRAM_DB_PATH,
//	MUSCLEGRAM_DB_HOST, MUSCLEGRAM_DB_PORT, MUSCLEGRAM_DB_NAME,
//	MUSCLEGRAM_DB_USER, MUSCLEGRAM_DB_PASSWORD, MUSCLEGRAM_DB_SSLMODE,
//	MUSCLEGRAM_AUTH_API_KEY,
//	MUSCLEGRAM_TAILSCALE_ENABLED, MUSCLEGRAM_TAILSCALE_HOSTNAME,
//	MUSCLEGRAM_REMINDERS_ENABLED, MUSCLEGRAM_REMINDERS_SCHEDULE,
//	MUSCLEGRAM_ANALYTICS_TIMEZONE
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Database:  DatabaseConfig{Driver: DriverPostgres},
		Tailscale: TailscaleConfig{Hostname: "musclegram"},
		Reminders: ReminderConfig{Schedule: "0 0 8 * * *"},
		Analytics: AnalyticsConfig{Timezone: "UTC", DetectorConcurrency: 4},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MUSCLEGRAM_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MUSCLEGRAM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MUSCLEGRAM_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MUSCLEGRAM_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("MUSCLEGRAM_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MUSCLEGRAM_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MUSCLEGRAM_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("MUSCLEGRAM_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MUSCLEGRAM_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MUSCLEGRAM_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("MUSCLEGRAM_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("MUSCLEGRAM_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("MUSCLEGRAM_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("MUSCLEGRAM_REMINDERS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Reminders.Enabled = b
		}
	}
	if v := os.Getenv("MUSCLEGRAM_REMINDERS_SCHEDULE"); v != "" {
		cfg.Reminders.Schedule = v
	}
	if v := os.Getenv("MUSCLEGRAM_ANALYTICS_TIMEZONE"); v != "" {
		cfg.Analytics.Timezone = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Reminders.Enabled && c.Reminders.Schedule == "" {
		return fmt.Errorf("reminders.schedule is required when reminders are enabled")
	}
	if _, err := c.Analytics.Location(); err != nil {
		return fmt.Errorf("analytics.timezone: %w", err)
	}
	if c.Analytics.DetectorConcurrency < 0 {
		return fmt.Errorf("analytics.detector_concurrency must not be negative")
	}
	return nil
}
