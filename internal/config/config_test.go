package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/clean/clean_idps_locality.csv", cfg.Data.IDPLocalityPath)
	assert.Equal(t, "data/clean/clean_health_facilities.csv", cfg.Data.FacilityPath)
	assert.Equal(t, "data/clean/clean_boundaries_data.csv", cfg.Data.BoundaryPath)
	assert.Equal(t, "outputs", cfg.Data.OutputDir)
	assert.InDelta(t, 0.4, cfg.Analysis.BurdenWeight, 0.001)
	assert.InDelta(t, 0.4, cfg.Analysis.AccessWeight, 0.001)
	assert.InDelta(t, 0.2, cfg.Analysis.OriginWeight, 0.001)
	assert.InDelta(t, 0.6, cfg.Analysis.DistanceWeight, 0.001)
	assert.InDelta(t, 0.4, cfg.Analysis.CountWeight, 0.001)
	assert.Equal(t, "origin_khartoum", cfg.Analysis.CapitalOriginKey)
	assert.Equal(t, int64(42), cfg.Analysis.Seed)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "crisis.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/crisis
analysis:
  seed: 7
  burden_weight: 0.5
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/crisis", cfg.Store.DatabaseURL)
	assert.Equal(t, int64(7), cfg.Analysis.Seed)
	assert.InDelta(t, 0.5, cfg.Analysis.BurdenWeight, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.4, cfg.Analysis.AccessWeight, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CRISIS_STORE_DRIVER", "postgres")
	t.Setenv("CRISIS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("CRISIS_ANALYSIS_SEED", "99")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Analysis.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid sqlite",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid postgres",
			mutate: func(c *Config) { c.Store.Driver = "postgres" },
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "mysql" },
			wantErr: "unsupported store driver",
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Store.DatabaseURL = "" },
			wantErr: "database_url",
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Store:  StoreConfig{Driver: "sqlite", DatabaseURL: "crisis.db"},
				Server: ServerConfig{Port: 8080},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
