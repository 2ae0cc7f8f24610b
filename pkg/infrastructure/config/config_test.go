package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1, cfg.Planning.BucketDays)
	assert.Equal(t, 4, cfg.Planning.Workers)
	assert.Equal(t, "max", cfg.Planning.ForecastConsumption)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Lock.TTL)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mrp.yaml")
	content := `
planning:
  bucket_days: 7
  workers: 2
store:
  driver: sqlite
  dsn: file:plans.db
lock:
  ttl: 2m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MRP_PLANNING_WORKERS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Planning.BucketDays)
	assert.Equal(t, 8, cfg.Planning.Workers, "environment overrides the file")
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "file:plans.db", cfg.Store.DSN)
	assert.Equal(t, 2*time.Minute, cfg.Lock.TTL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Planning: PlanningConfig{BucketDays: 1, Workers: 1},
		Store:    StoreConfig{Driver: StoreMemory},
		Lock:     LockConfig{Driver: LockMemory},
	}
	require.NoError(t, base.Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero bucket", func(c *Config) { c.Planning.BucketDays = 0 }},
		{"zero workers", func(c *Config) { c.Planning.Workers = 0 }},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = StorePostgres }},
		{"unknown store", func(c *Config) { c.Store.Driver = "mongo" }},
		{"unknown lock", func(c *Config) { c.Lock.Driver = "zookeeper" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
