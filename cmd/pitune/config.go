package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledpi/pitune/pkg/pitune/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage pitune configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/pitune/config.yaml (if set)
  2. ~/.config/pitune/config.yaml

Environment variables can override config file settings using the PITUNE_ prefix:
  PITUNE_TUNER_GOVERNOR=ondemand
  PITUNE_TUNER_GROUP=led-group
  PITUNE_SERVICE_NAME=led-controller`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("tuner.governor:          %s\n", cfg.Tuner.Governor)
	fmt.Printf("tuner.sysfs_path:        %s\n", cfg.Tuner.SysfsPath)
	fmt.Printf("tuner.limits_file:       %s\n", cfg.Tuner.LimitsFile)
	fmt.Printf("tuner.group:             %s\n", cfg.Tuner.Group)
	fmt.Printf("tuner.user:              %s\n", cfg.Tuner.User)
	fmt.Printf("tuner.nice_limit:        %d\n", cfg.Tuner.NiceLimit)
	fmt.Printf("tuner.step_timeout:      %ds\n", cfg.Tuner.StepTimeout)
	fmt.Printf("service.name:            %s\n", cfg.Service.Name)
	fmt.Printf("service.working_dir:     %s\n", cfg.Service.WorkingDir)
	fmt.Printf("service.exec_start:      %s\n", cfg.Service.ExecStart)
	fmt.Printf("service.restart:         %s (after %ds)\n", cfg.Service.Restart, cfg.Service.RestartSec)
	fmt.Printf("service.nice:            %d\n", cfg.Service.Nice)
	fmt.Printf("service.unit_path:       %s\n", cfg.Service.UnitPath())
	fmt.Printf("monitor.script_path:     %s\n", cfg.Monitor.ScriptPath)
	fmt.Printf("monitor.process_pattern: %s\n", cfg.Monitor.ProcessPattern)
	fmt.Printf("history.enabled:         %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:            %s\n", cfg.History.Path)
	fmt.Printf("history.retention_days:  %d\n", cfg.History.RetentionDays)
	fmt.Printf("logging.level:           %s\n", cfg.Logging.Level)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"PITUNE_TUNER_GOVERNOR",
		"PITUNE_TUNER_GROUP",
		"PITUNE_TUNER_USER",
		"PITUNE_TUNER_NICE_LIMIT",
		"PITUNE_SERVICE_NAME",
		"PITUNE_MONITOR_SCRIPT_PATH",
		"PITUNE_MONITOR_PROCESS_PATTERN",
		"PITUNE_HISTORY_PATH",
		"PITUNE_LOGGING_LEVEL",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'pitune config edit' to modify it.")
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	fmt.Println(filepath.Join(configDir, "config.yaml"))
	return nil
}
