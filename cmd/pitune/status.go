package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledpi/pitune/pkg/pitune/monitor"
	"github.com/ledpi/pitune/pkg/pitune/output"
)

var statusWatch time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show live system and LED controller status",
	Long: `Collect and display a live snapshot: CPU governor, per-core utilization,
memory and swap usage, and whether the LED controller process is
running.

Every value is computed at invocation time, never cached. Values that
cannot be read (for example the governor on a machine without cpufreq)
are shown as unknown rather than failing the command.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().DurationVarP(&statusWatch, "watch", "w", 0, "refresh every interval (e.g. 2s); 0 shows one snapshot")
	rootCmd.AddCommand(statusCmd)
}

// runStatus collects one snapshot, or keeps refreshing with --watch.
func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := monitor.Options{
		SysfsPath:      cfg.Tuner.SysfsPath,
		ProcessPattern: cfg.Monitor.ProcessPattern,
	}

	for {
		snap, err := monitor.Collect(ctx, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := printResult(&output.Result{Snapshot: snap}); err != nil {
			return err
		}

		if statusWatch <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(statusWatch):
		}
	}
}
