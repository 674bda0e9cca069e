// File: cmd/console/main.go
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"systems-console/internal/config"
	"systems-console/internal/infra/logging"
	"systems-console/internal/infra/metrics"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	cfgPath string
	devMode bool
)

var rootCmd = &cobra.Command{
	Use:           "console",
	Short:         "Systems management web console",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "enable developer mode (console log output)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and prepares the shared logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgPath, devMode)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	metrics.SetBuildInfo(version, commit)
	return cfg, nil
}

func newLogger(cfg *config.Config) *zerolog.Logger {
	return logging.New(cfg.Log, cfg.Runtime.Dev)
}
