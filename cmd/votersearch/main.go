// Command votersearch serves and queries electoral roll partitions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gcbaptista/go-voter-search/config"
)

const version = "1.0.0"

var (
	// Global flags
	configPath string
	dataDir    string
	verbose    bool

	logger   *zap.Logger
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "votersearch",
	Short: "Search electoral rolls by name and relative name",
	Long: `votersearch loads one electoral roll file per constituency and finds voters
whose name and relative's name contain the given text, ignoring case.

Partitions are configured in a YAML file (see --config); without one, the
Coimbatore constituencies are read from the data directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		settings, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			settings.Storage.BaseDir = dataDir
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML settings file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding local partition files (overrides storage.base_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd, partitionsCmd, searchCmd, snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
