package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tds"
	"github.com/aretw0/tds/internal/cli"
	"github.com/aretw0/tds/internal/config"
	"github.com/aretw0/tds/pkg/observability"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tds",
	Short: "tds scores how you like to be talked to and writes the prompt for it",
	Long: `tds runs a short questionnaire, places you in one of sixteen communication zones
(A1 to D4) and synthesizes a prompt telling an AI collaborator how to talk to you.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Config file (default: ./tds.yaml if present)")
	f.Bool("debug", false, "Enable debug logging")
	f.Bool("quiet", false, "Disable logging")
	f.String("zones", "", "Zone catalog: URL, Loam directory or JSON/YAML file (default: embedded)")
	f.String("personas", "", "Focus persona catalog: URL, Loam directory or JSON/YAML file (default: embedded)")
	f.String("questions", "", "Questionnaire JSON/YAML file (default: built-in)")
	f.String("store", "", "Result store: memory, file or redis")
	f.String("store-path", "", "Directory for the file store")
	f.String("redis-addr", "", "Redis address for the redis store")
}

// loadConfig reads the config file and environment, then applies the flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	overrides := map[string]*string{
		"zones":      &cfg.Zones,
		"personas":   &cfg.Personas,
		"questions":  &cfg.QuestionsFile,
		"store":      &cfg.Store,
		"store-path": &cfg.StorePath,
		"redis-addr": &cfg.Redis.Addr,
	}
	for name, dest := range overrides {
		if cmd.Flags().Changed(name) {
			*dest, _ = cmd.Flags().GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return cfg, cli.NewLogger(cfg.Log, debug, quiet), nil
}

// openEngine loads configuration and builds the engine for a command.
func openEngine(cmd *cobra.Command) (*tds.Engine, config.Config, *slog.Logger, func() error, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	engine, cleanup, err := cli.NewEngine(cfg, logger, observability.LogHooks(logger))
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	return engine, cfg, logger, cleanup, nil
}

// focusFlag returns --focus when set, else the configured focus.
func focusFlag(cmd *cobra.Command, cfg config.Config) string {
	if cmd.Flags().Changed("focus") {
		focus, _ := cmd.Flags().GetString("focus")
		return focus
	}
	return cfg.Focus
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
