package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/encore/internal/config"
	"github.com/llehouerou/encore/internal/icons"
	"github.com/llehouerou/encore/internal/logging"
)

var (
	logger zerolog.Logger
	cfg    *config.Config

	verbose bool
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "encore",
	Short: "Encore - terminal client for a self-hosted music server",
	Long: `Encore plays the queue and radio stations of a music server from the
terminal, with crossfading, loudness normalization and play tracking.

Without a subcommand it opens the interactive player.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr in human-readable form")
	rootCmd.AddCommand(playCmd, radioCmd, versionCmd, lastfmCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and sets up logging. The interactive
// player owns the terminal, so logs go to a file unless --verbose is given.
func loadConfig(cmd *cobra.Command) error {
	if cmd == versionCmd {
		return nil
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	icons.Init(cfg.Icons)

	if verbose {
		logger = logging.SetupConsole(cfg.LogLevel, os.Stderr)
		return nil
	}

	f, _, err := logging.OpenFile()
	if err != nil {
		logger = logging.Setup(cfg.LogLevel, io.Discard)
		return nil
	}
	logFile = f
	logger = logging.Setup(cfg.LogLevel, f)
	return nil
}
