// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the idextract CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/idextract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from log.level and log.format before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the idextract CLI.
var rootCmd = &cobra.Command{
	Use:   "idextract",
	Short: "Reduce JSON record files to the list of their ids",
	Long: `idextract rewrites a JSON file holding an array of records as a JSON
array of just the records' ids, in the same order, indented with two spaces.
The file is overwritten in place.

Use extract for a single file (place_ids.json by default) and batch to
reduce every dataset listed in a YAML manifest. Runs are journaled in
.idextract/journal.db; history lists them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./idextract.yaml or ~/.config/idextract/idextract.yaml)")
	flags.String("log-level", "warn", "diagnostic log level: debug, info, warn, error")
	flags.String("log-format", "console", "diagnostic log format: console or json")
	flags.String("journal-dir", types.DefaultJournalDir, "directory holding the run journal database")
	flags.Bool("no-journal", false, "do not record runs in the journal")

	mustBind("log.level", "log-level")
	mustBind("log.format", "log-format")
	mustBind("journal.dir", "journal-dir")
	mustBind("journal.disabled", "no-journal")
}

func mustBind(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("idextract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "idextract"))
		}
	}

	d := types.Defaults()
	viper.SetDefault("extract.field", d.Extract.Field)
	viper.SetDefault("extract.indent", d.Extract.Indent)
	viper.SetDefault("journal.dir", d.Journal.Dir)
	viper.SetDefault("journal.disabled", d.Journal.Disabled)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)

	viper.SetEnvPrefix("IDEXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, environment, file, and default
// settings and validates them.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Extract.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
