package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. RENTAL_STORAGE_DATA_FILE.
const EnvPrefix = "RENTAL"

const (
	StorageTypeJSON     = "json"
	StorageTypePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// StorageConfig selects the snapshot store
type StorageConfig struct {
	Type     string `yaml:"type" split_words:"true"`      // "json" or "postgres"
	DataFile string `yaml:"data_file" split_words:"true"` // For json storage
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	Database string `yaml:"database" split_words:"true"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format" split_words:"true"` // "json" or "text"
}

// SchedulingConfig tunes the availability search and prompt rentals
type SchedulingConfig struct {
	// MaxSearchDays bounds the next-free-slot scan; 0 means unbounded.
	MaxSearchDays      int `yaml:"max_search_days" split_words:"true"`
	PromptFallbackDays int `yaml:"prompt_fallback_days" split_words:"true"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RefreshDeviceStatuses string `yaml:"refresh_device_statuses" split_words:"true"`
	ReportOverdueRentals  string `yaml:"report_overdue_rentals" split_words:"true"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Type:     StorageTypeJSON,
			DataFile: "data/rentals.json",
		},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Scheduling: SchedulingConfig{
			MaxSearchDays:      3650,
			PromptFallbackDays: 3,
		},
		Scheduler: SchedulerConfig{
			RefreshDeviceStatuses: "0 5 0 * * *",  // 00:05 every day
			ReportOverdueRentals:  "0 10 0 * * *", // 00:10 every day
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file in the working directory and RENTAL_* variables, in that
// order of precedence (later wins).
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// overrideWithEnv overrides config values with RENTAL_* environment variables.
// Unset variables leave the current value alone.
func (c *Config) overrideWithEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid and fills empty values with defaults
func (c *Config) Validate() error {
	defaults := Default()

	// Storage validation
	if c.Storage.Type == "" {
		c.Storage.Type = defaults.Storage.Type
	}
	switch c.Storage.Type {
	case StorageTypeJSON:
		if c.Storage.DataFile == "" {
			c.Storage.DataFile = defaults.Storage.DataFile
		}
	case StorageTypePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required for postgres storage")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required for postgres storage")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required for postgres storage")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}

	// Scheduling validation
	if c.Scheduling.MaxSearchDays < 0 {
		return fmt.Errorf("max search days must not be negative: %d", c.Scheduling.MaxSearchDays)
	}
	if c.Scheduling.PromptFallbackDays == 0 {
		c.Scheduling.PromptFallbackDays = defaults.Scheduling.PromptFallbackDays
	}
	if c.Scheduling.PromptFallbackDays < 1 {
		return fmt.Errorf("prompt fallback days must be at least 1: %d", c.Scheduling.PromptFallbackDays)
	}

	// Scheduler defaults
	if c.Scheduler.RefreshDeviceStatuses == "" {
		c.Scheduler.RefreshDeviceStatuses = defaults.Scheduler.RefreshDeviceStatuses
	}
	if c.Scheduler.ReportOverdueRentals == "" {
		c.Scheduler.ReportOverdueRentals = defaults.Scheduler.ReportOverdueRentals
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
