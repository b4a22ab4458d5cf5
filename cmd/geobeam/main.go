// geobeam generates timed motion files from endpoints or GPX tracks and
// plays configured simulation sets through an SDR GPS simulator.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geobeam/geobeam/internal/config"
	"github.com/geobeam/geobeam/internal/history"
	"github.com/geobeam/geobeam/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

var (
	configDir string
	verbose   bool

	logManager   = logging.NewManager()
	logFile      *os.File
	sessionStart = time.Now()
)

var rootCmd = &cobra.Command{
	Use:   "geobeam",
	Short: "Motion file generator and run controller for SDR GPS simulators",
	Long: `geobeam turns endpoint pairs and recorded GPX tracks into timed motion
files for software-defined-radio GPS simulators, and plays configured
simulation sets through the simulator process.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// setup loads configuration and initializes logging before any subcommand
// runs. A missing config file is fine; every key has a default.
func setup(cmd *cobra.Command, args []string) error {
	cfgErr := config.Load(configDir)
	var notFound viper.ConfigFileNotFoundError
	if cfgErr != nil && !errors.As(cfgErr, &notFound) {
		return cfgErr
	}

	level := config.GetString("logLevel")
	if verbose {
		level = "debug"
	}

	var err error
	logFile, err = logging.OpenLogFile(config.GetString("logsDir"), "geobeam", sessionStart)
	if err != nil {
		logManager.Setup(nil, level)
		logManager.Logger().Warn("Logging to console only", "error", err)
	} else {
		logManager.Setup(logFile, level)
	}
	logManager.SetDefault()

	if cfgErr != nil {
		logManager.Logger().Info("No config file found, using defaults", "searched", configDir)
	}
	return nil
}

// openHistory connects the run-history store. Failures leave recording
// disabled rather than aborting the command.
func openHistory(logger *slog.Logger) *history.Manager {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	hist := history.NewManager(zl, config.GetHistoryConfig())
	if err := hist.Connect(); err != nil {
		logger.Warn("History storage unavailable", "error", err)
		return hist
	}
	if err := hist.Setup(); err != nil {
		logger.Warn("History schema migration failed", "error", err)
	}
	return hist
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing geobeam.cfg.json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(routeCmd, runCmd, historyCmd)
}

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
