package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StorageTypeJSON, cfg.Storage.Type)
	assert.Equal(t, "data/rentals.json", cfg.Storage.DataFile)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3650, cfg.Scheduling.MaxSearchDays)
	assert.Equal(t, 3, cfg.Scheduling.PromptFallbackDays)
	assert.Equal(t, "0 5 0 * * *", cfg.Scheduler.RefreshDeviceStatuses)
	assert.Equal(t, "0 10 0 * * *", cfg.Scheduler.ReportOverdueRentals)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  type: postgres
database:
  host: db.local
  user: rental
  database: rentals
log:
  level: debug
  format: json
scheduling:
  max_search_days: 0
  prompt_fallback_days: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageTypePostgres, cfg.Storage.Type)
	assert.Equal(t, 5432, cfg.Database.Port, "default kept")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Scheduling.MaxSearchDays, "explicit zero means unbounded")
	assert.Equal(t, 7, cfg.Scheduling.PromptFallbackDays)
	assert.Equal(t, "postgres://rental:@db.local:5432/rentals?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "storage:\n  data_file: from-file.json\n")
	t.Setenv("RENTAL_STORAGE_DATA_FILE", "from-env.json")
	t.Setenv("RENTAL_LOG_LEVEL", "error")
	t.Setenv("RENTAL_SCHEDULING_MAX_SEARCH_DAYS", "30")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.json", cfg.Storage.DataFile)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Scheduling.MaxSearchDays)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := Load(writeConfig(t, "storage: [oops"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Bad env value", func(t *testing.T) {
		t.Setenv("RENTAL_SCHEDULING_MAX_SEARCH_DAYS", "many")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "environment overrides")
	})
}

func TestValidate(t *testing.T) {
	t.Run("Unknown storage type", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Type = "sqlite"
		assert.ErrorContains(t, cfg.Validate(), "unknown storage type")
	})

	t.Run("Postgres requires host", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Type = StorageTypePostgres
		assert.ErrorContains(t, cfg.Validate(), "database host is required")
	})

	t.Run("Negative horizon", func(t *testing.T) {
		cfg := Default()
		cfg.Scheduling.MaxSearchDays = -1
		assert.ErrorContains(t, cfg.Validate(), "max search days")
	})

	t.Run("Fills empty values", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, StorageTypeJSON, cfg.Storage.Type)
		assert.Equal(t, "data/rentals.json", cfg.Storage.DataFile)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, 3, cfg.Scheduling.PromptFallbackDays)
	})
}
