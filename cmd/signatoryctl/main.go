package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "signatoryctl",
	Short: "Manage certificate signatories",
	Long: `Run the signatories server and manage the signatories of course
certificates from the command line.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// newLogger builds the application logger and installs it as zap's global
// logger, which the audit package reports store failures on.
func newLogger(cfg *config.Config) *zap.Logger {
	logger, _ := newLeveledLogger(cfg)
	return logger
}

// newLeveledLogger is newLogger, also returning the level the configuration
// reload adjusts.
func newLeveledLogger(cfg *config.Config) (*zap.Logger, zap.AtomicLevel) {
	logger, level := logging.NewWithLevel(logging.Config{
		Env:         cfg.LogFormat,
		Level:       cfg.LogLevel,
		ServiceName: "signatoryctl",
	})
	zap.ReplaceGlobals(logger)
	return logger, level
}
