// Package main provides the relic_planner CLI for decoding saves and planning relic loadouts.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/relic-planner/internal/config"
	"github.com/jonathan/relic-planner/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "relic_planner",
	Short:         "Relic loadout planner",
	Long:          "Relic planner decodes Nightreign save files, lists the relics each character owns and ranks vessel assignments against a build definition.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setup()
	},
}

var (
	configFile string
	verbose    bool
	logLevel   string

	// Resolved by setup before any subcommand runs.
	cfg    config.Config
	logger = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// setup merges the config file, RELIC_PLANNER_* variables and defaults, then
// applies the global flags and builds the logger.
func setup() error {
	loaded := &config.Config{}
	if configFile != "" {
		var err error
		if loaded, err = config.LoadConfig(configFile); err != nil {
			return err
		}
	}
	if err := loaded.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	cfg = loaded.MergeWithDefaults(config.Defaults())

	if verbose {
		cfg.Verbose = true
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	l, err := logging.New(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
