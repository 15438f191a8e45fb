package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ledpi/pitune/pkg/pitune/config"
	"github.com/ledpi/pitune/pkg/pitune/logging"
)

var (
	cfgFile    string
	formatName string
	dryRun     bool
	verbose    bool
	quiet      bool

	rootCmd = &cobra.Command{
		Use:   "pitune",
		Short: "Tune a Raspberry Pi for the LED controller service",
		Long: `Pitune applies a small set of idempotent performance tweaks so the LED
controller runs smoothly on a Raspberry Pi: it pins the CPU scaling
governor, writes (but never enables) a systemd unit, grants a scheduling
group elevated nice limits, and drops a standalone monitoring script.

Every step is best-effort: failures are reported, never fatal, and no
step is ever repeated once its change is in place. Kernel parameters,
boot configuration, and overclocking are deliberately never touched.

Examples:
  pitune                    # Show live system status
  pitune tune               # Apply all tuning steps
  pitune tune --dry-run     # Preview without changing anything
  pitune status --watch 2s  # Refresh status every two seconds
  pitune script             # Regenerate the monitor script only
  pitune history            # Review past tune runs`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/pitune/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&formatName, "format", "f", "pretty", "output format (pretty, plain, json, yaml, template)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "report what would change without touching system state")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "minimal output")
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logging.Close() }()
	return rootCmd.Execute()
}

// loadConfig loads the configuration, honoring the --config flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// initLogging initializes file logging from the loaded configuration.
// With --verbose, debug logs are mirrored to stderr.
func initLogging(cfg *config.Config) error {
	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if verbose {
		logCfg.ConsoleLevel = "debug"
	}

	return logging.Init(logCfg)
}

// parseRotationConfig converts the string-based rotation settings from the
// config file to the logging package's types. An unparseable max_size falls
// back to the default instead of failing startup.
func parseRotationConfig(cfg config.RotationConfig) logging.RotationConfig {
	rotation := logging.RotationConfig{
		MaxSize:    logging.DefaultRotationConfig().MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Daily:      cfg.Daily,
	}

	if cfg.MaxSize != "" {
		if size, err := humanize.ParseBytes(cfg.MaxSize); err == nil {
			rotation.MaxSize = int64(size)
		}
	}

	return rotation
}

// printInfo prints a message unless quiet mode is enabled.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
