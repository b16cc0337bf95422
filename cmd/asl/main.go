// Command asl parses agent programs and runs their agents to completion.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"asl/internal/config"
	"asl/internal/logging"
)

var (
	// Persistent flags.
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "asl",
	Short: "asl - an AgentSpeak(L) interpreter",
	Long: `asl interprets agent programs written in an AgentSpeak(L) dialect.

An agent is defined by beliefs, rules, and plans. At runtime the
interpreter maintains the belief base and a queue of intentions and
advances one intention by one step per turn, round-robining across all
agents until none has work left.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, err = buildLogger(cfg.Logging)
		if err != nil {
			return err
		}
		logging.Configure(logger)
		return nil
	},
}

func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	zc.Encoding = lc.Format
	if lc.Format == "console" {
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	// Program output goes to stdout; diagnostics stay on stderr.
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a yaml config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
