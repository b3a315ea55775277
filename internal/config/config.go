// Package config loads duelsim configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/duelsim/internal/evolution"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the simulator and CLI.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json

	// Seed for the random source. 0 means a random seed is generated.
	Seed uint64 `yaml:"seed"`

	Combat    CombatConfig     `yaml:"combat"`
	Evolution evolution.Config `yaml:"evolution"`
	Store     StoreConfig      `yaml:"store"`
}

// CombatConfig holds resolver scheduling parameters.
type CombatConfig struct {
	TimeStep      time.Duration `yaml:"time_step"`
	MaxBattleTime time.Duration `yaml:"max_battle_time"`
}

// StoreConfig selects and configures challenge persistence.
type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	Dir      string         `yaml:"dir"`
	Database DatabaseConfig `yaml:"database"`

	// HistoryLimit bounds the round history kept per challenge. 0 keeps all.
	HistoryLimit int `yaml:"history_limit"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Combat: CombatConfig{
			TimeStep:      100 * time.Millisecond,
			MaxBattleTime: 300 * time.Second,
		},
		Evolution: evolution.DefaultConfig(),
		Store: StoreConfig{
			Driver:       DriverFile,
			Dir:          "challenges",
			HistoryLimit: 100,
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "duelsim",
				Password: "duelsim",
				DBName:   "duelsim",
				SSLMode:  "disable",
				MaxConns: 4,
			},
		},
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings the simulator cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.Combat.TimeStep <= 0 || c.Combat.MaxBattleTime < c.Combat.TimeStep {
		errs = append(errs, errors.New("combat.time_step must be positive and not exceed combat.max_battle_time"))
	}
	e := c.Evolution
	if e.PopulationSize < 1 || e.SimCount < 1 || e.MemorySize < 1 {
		errs = append(errs, errors.New("evolution population_size, sim_count and memory_size must be positive"))
	}
	if e.CrossoverRate < 0 || e.CrossoverRate > 1 || e.MutationRate < 0 || e.MutationRate > 1 {
		errs = append(errs, errors.New("evolution rates must be within [0, 1]"))
	}
	if c.Store.HistoryLimit < 0 {
		errs = append(errs, errors.New("store.history_limit must not be negative"))
	}
	switch c.Store.Driver {
	case DriverFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("store.dir is required for the file driver"))
		}
	case DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	return errors.Join(errs...)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", name)
	}
	return level, nil
}
