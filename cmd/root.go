package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trap-engine/trap-docs/internal/logger"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trap-docs",
	Short: "TRAP documentation build configuration tool",
	Long: `trap-docs prepares the configuration consumed by the TRAP Sphinx documentation build.

It performs the following core functions:
  - Release version extraction from the engine headers
  - conf.py generation (or YAML/TOML/JSON equivalents)
  - Release stamping into other project files
  - Version header checks for CI`,
	SilenceUsage:      true, // Don't print usage on errors unrelated to flags
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := logger.ToContext(context.Background(), logger.Logger())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "trap-docs.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	lvl, ok := logger.ParseLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}
	if verbose && lvl > zapcore.DebugLevel {
		lvl = zapcore.DebugLevel
	}
	logger.SetLevel(lvl)
	return nil
}

// GetConfigPath returns the configured config file path.
func GetConfigPath() string {
	return cfgFile
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
