package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duelsim.yaml")
	yml := `
log_level: debug
seed: 42
combat:
  time_step: 50ms
  max_battle_time: 2m
evolution:
  population_size: 40
  workers: 2
store:
  driver: postgres
  database:
    host: db
    port: 6543
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 50*time.Millisecond, cfg.Combat.TimeStep)
	assert.Equal(t, 2*time.Minute, cfg.Combat.MaxBattleTime)
	assert.Equal(t, 40, cfg.Evolution.PopulationSize)
	assert.Equal(t, 0.7, cfg.Evolution.CrossoverRate, "unset fields keep defaults")
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://duelsim:duelsim@db:6543/duelsim?sslmode=disable", cfg.Store.Database.DSN())
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log_level: [oops"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("store:\n  driver: s3\nevolution:\n  mutation_rate: 2\n"), 0o644))
	_, err = Load(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3")
	assert.Contains(t, err.Error(), "rates")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
