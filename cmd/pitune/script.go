package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledpi/pitune/pkg/pitune/output"
	"github.com/ledpi/pitune/pkg/pitune/tuner"
)

var scriptPath string

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Regenerate the standalone monitor script",
	Long: `Write the monitor script without running the other tuning steps.

The script is a plain bash file that reports governor, CPU, memory, and
LED controller process state. It has no dependency on pitune and keeps
working if pitune is uninstalled.`,
	Args: cobra.NoArgs,
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().StringVar(&scriptPath, "path", "", "where to write the script (default: configured script path)")
	rootCmd.AddCommand(scriptCmd)
}

// runScript runs the monitor-script step alone.
func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	path := scriptPath
	if path == "" {
		path = cfg.Monitor.ScriptPath
	}

	step := tuner.NewMonitorScriptStep(path, tuner.ScriptConfig{
		SysfsPath:      cfg.Tuner.SysfsPath,
		ProcessPattern: cfg.Monitor.ProcessPattern,
		ServiceName:    cfg.Service.Name,
	}, dryRun)

	t := tuner.NewWithSteps([]tuner.Step{step}, cfg.Tuner.StepTimeoutDuration(), dryRun)
	report := t.Run(cmd.Context())

	return printResult(&output.Result{Report: report})
}
