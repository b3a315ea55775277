package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/config"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// env holds what every subcommand needs once the root command has run.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	catalog *gamedata.Catalog
}

var (
	cfgFile string
	app     env
)

var rootCmd = &cobra.Command{
	Use:           "duelsim",
	Short:         "Time-stepped duel simulator with evolving Challenge Mode opponents",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyOverrides(&cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		catalog, err := gamedata.LoadCatalog()
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		app = env{cfg: cfg, logger: logger, catalog: catalog}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "duelsim.yaml", "path to the YAML config file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text or json)")
	flags.Uint64("seed", 0, "random seed, 0 for a random one")
	flags.String("store", "", "challenge store driver (file or postgres)")
	flags.String("store-dir", "", "directory for the file store")

	for key, flag := range map[string]string{
		"log_level":    "log-level",
		"log_format":   "log-format",
		"seed":         "seed",
		"store.driver": "store",
		"store.dir":    "store-dir",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}

	viper.SetEnvPrefix("DUELSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{
		"store.database.host", "store.database.port", "store.database.user",
		"store.database.password", "store.database.dbname", "store.database.sslmode",
		"evolution.population_size", "evolution.sim_count", "evolution.workers",
	} {
		cobra.CheckErr(viper.BindEnv(key))
	}
}

// applyOverrides layers DUELSIM_* environment variables and flags over the
// file configuration.
func applyOverrides(cfg *config.Config) {
	if viper.IsSet("log_level") {
		cfg.LogLevel = viper.GetString("log_level")
	}
	if viper.IsSet("log_format") {
		cfg.LogFormat = viper.GetString("log_format")
	}
	if viper.IsSet("seed") {
		cfg.Seed = viper.GetUint64("seed")
	}
	if viper.IsSet("store.driver") {
		cfg.Store.Driver = viper.GetString("store.driver")
	}
	if viper.IsSet("store.dir") {
		cfg.Store.Dir = viper.GetString("store.dir")
	}
	if viper.IsSet("evolution.population_size") {
		cfg.Evolution.PopulationSize = viper.GetInt("evolution.population_size")
	}
	if viper.IsSet("evolution.sim_count") {
		cfg.Evolution.SimCount = viper.GetInt("evolution.sim_count")
	}
	if viper.IsSet("evolution.workers") {
		cfg.Evolution.Workers = viper.GetInt("evolution.workers")
	}
	db := &cfg.Store.Database
	if viper.IsSet("store.database.host") {
		db.Host = viper.GetString("store.database.host")
	}
	if viper.IsSet("store.database.port") {
		db.Port = viper.GetInt("store.database.port")
	}
	if viper.IsSet("store.database.user") {
		db.User = viper.GetString("store.database.user")
	}
	if viper.IsSet("store.database.password") {
		db.Password = viper.GetString("store.database.password")
	}
	if viper.IsSet("store.database.dbname") {
		db.DBName = viper.GetString("store.database.dbname")
	}
	if viper.IsSet("store.database.sslmode") {
		db.SSLMode = viper.GetString("store.database.sslmode")
	}
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

// newResolver builds a resolver from the loaded configuration. A non-zero
// seed makes every run of the command reproducible.
func newResolver(seed uint64) *combat.Resolver {
	opts := []combat.Option{
		combat.WithLogger(app.logger),
		combat.WithTimeStep(app.cfg.Combat.TimeStep),
		combat.WithMaxBattleTime(app.cfg.Combat.MaxBattleTime),
	}
	if seed != 0 {
		opts = append(opts, combat.WithRandSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))))
	}
	return combat.NewResolver(app.catalog, opts...)
}
