package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ledpi/pitune/pkg/pitune/history"
	"github.com/ledpi/pitune/pkg/pitune/output"
	"github.com/ledpi/pitune/pkg/pitune/tuner"
)

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Apply the performance tuning steps",
	Long: `Apply every tuning step in order: CPU scaling governor, systemd unit,
scheduling group, nice limits, and the monitor script.

Each step is idempotent; re-running tune on an already tuned system
reports "unchanged" for every step. A failing step is recorded in the
report and the remaining steps still run.

The systemd unit is written but never enabled or started; review it and
enable it yourself. Kernel parameters, boot configuration, and
overclocking are never touched.

Most steps need root to change system state. Without root they report
what they could not do instead of failing the run.`,
	Args: cobra.NoArgs,
	RunE: runTune,
}

func init() {
	rootCmd.AddCommand(tuneCmd)
}

// runTune applies all tuning steps and prints the report.
// Step failures are reported in the output, not as a command error.
func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := tuner.New(cfg, tuner.Options{DryRun: dryRun})
	report := t.Run(ctx)

	if err := printResult(&output.Result{Report: report}); err != nil {
		return err
	}

	if cfg.History.Enabled && !dryRun {
		store, err := history.New(cfg.History.Path)
		if err == nil {
			_, err = store.Record(report)
		}
		if err != nil {
			printError("failed to record history: %v", err)
		}
	}

	if report.Failed() {
		printError("some steps failed; see the report above")
	}

	return nil
}

// printResult renders a result with the selected formatter.
func printResult(result *output.Result) error {
	formatter, err := output.Get(formatName)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, output.Available())
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Print(buf.String())
	return nil
}
