// Package main provides the wfdl CLI: it serves the download API and runs
// one-off downloads and controller listings from the shell.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workflow-downloader/internal/config"
	"workflow-downloader/internal/logging"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	// configFile is set by the --config flag.
	configFile string
	logLevel   string
	flagJSON   bool

	// cfg and logger are initialized by PersistentPreRunE.
	cfg    *config.Config
	logger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(exitUsage)
	}
	os.Exit(exitSuccess)
}

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "wfdl",
	Short: "wfdl exports automation controller workflows to JSON files",
	Long: `wfdl connects to an automation database, looks up a controller by name
and version, and writes each of its workflows to
<output>/<controller>/v<version>/<workflow>.json.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides log.level)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(controllersCmd)
}

// initApp loads config and builds the logger.
func initApp(cmd *cobra.Command, args []string) error {
	// Skip init for version command
	if cmd.Name() == "version" {
		return nil
	}

	loaded, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}

	cfg = loaded
	logger = logging.NewLogger(cfg.Log.Level)
	logger.Debug("configuration loaded", "config_file", cfg.File(), "command", cmd.Name())
	return nil
}
