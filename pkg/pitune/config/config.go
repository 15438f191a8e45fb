package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// TunerConfig configures the tuning steps.
type TunerConfig struct {
	Governor    string `mapstructure:"governor"`
	SysfsPath   string `mapstructure:"sysfs_path"`
	LimitsFile  string `mapstructure:"limits_file"`
	Group       string `mapstructure:"group"`
	User        string `mapstructure:"user"`
	NiceLimit   int    `mapstructure:"nice_limit"`
	StepTimeout int    `mapstructure:"step_timeout"` // seconds
}

// StepTimeoutDuration returns the per-step timeout as a duration.
func (t TunerConfig) StepTimeoutDuration() time.Duration {
	if t.StepTimeout <= 0 {
		return DefaultStepTimeoutSeconds * time.Second
	}
	return time.Duration(t.StepTimeout) * time.Second
}

// ServiceConfig describes the systemd unit the tuner writes.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	WorkingDir  string `mapstructure:"working_dir"`
	ExecStart   string `mapstructure:"exec_start"`
	Restart     string `mapstructure:"restart"`
	RestartSec  int    `mapstructure:"restart_sec"`
	Nice        int    `mapstructure:"nice"`
	UnitDir     string `mapstructure:"unit_dir"`
}

// UnitPath returns the full path of the rendered unit file.
func (s ServiceConfig) UnitPath() string {
	return filepath.Join(s.UnitDir, s.Name+".service")
}

// MonitorConfig configures status collection and the generated monitor script.
type MonitorConfig struct {
	ScriptPath     string `mapstructure:"script_path"`
	ProcessPattern string `mapstructure:"process_pattern"`
}

// HistoryConfig configures tune-run history retention.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Tuner   TunerConfig   `mapstructure:"tuner"`
	Service ServiceConfig `mapstructure:"service"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/pitune/config.yaml
//   - $HOME/.config/pitune/config.yaml
//
// Environment variables are prefixed with PITUNE_ (e.g., PITUNE_TUNER_GOVERNOR).
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path falls
// back to the standard search locations.
func LoadFile(cfgFile string) (*Config, error) {
	v := viper.New()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "pitune"))
		}
		v.AddConfigPath(filepath.Join(homeDir, ".config", "pitune"))
	}

	v.SetEnvPrefix("PITUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v, homeDir)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in user-supplied paths
	if cfg.Monitor.ScriptPath, err = ExpandPath(cfg.Monitor.ScriptPath); err != nil {
		return nil, err
	}
	if cfg.History.Path, err = ExpandPath(cfg.History.Path); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetDefaults registers all configuration defaults on the given viper instance.
// The root command shares these with Load through the global viper.
func SetDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault("tuner.governor", DefaultGovernor)
	v.SetDefault("tuner.sysfs_path", DefaultSysfsCPUPath)
	v.SetDefault("tuner.limits_file", DefaultLimitsFile)
	v.SetDefault("tuner.group", DefaultGroup)
	v.SetDefault("tuner.user", DefaultUser)
	v.SetDefault("tuner.nice_limit", DefaultNiceLimit)
	v.SetDefault("tuner.step_timeout", DefaultStepTimeoutSeconds)

	v.SetDefault("service.name", DefaultServiceName)
	v.SetDefault("service.description", DefaultServiceDescription)
	v.SetDefault("service.working_dir", DefaultWorkingDir)
	v.SetDefault("service.exec_start", DefaultExecStart)
	v.SetDefault("service.restart", DefaultRestartPolicy)
	v.SetDefault("service.restart_sec", DefaultRestartSec)
	v.SetDefault("service.nice", DefaultServiceNice)
	v.SetDefault("service.unit_dir", DefaultUnitDir)

	v.SetDefault("monitor.script_path", filepath.Join(homeDir, DefaultScriptName))
	v.SetDefault("monitor.process_pattern", DefaultProcessPattern)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryDir())
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"tuner":   "info",
		"monitor": "info",
		"output":  "warn",
	})
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "pitune"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "pitune"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# pitune Raspberry Pi Performance Tuner Configuration

# Tuning step settings
tuner:
  # Scaling governor applied to every writable CPU core
  governor: %s
  # sysfs tree holding the per-core governor controls
  sysfs_path: %s
  # PAM limits file that receives the group nice rules
  limits_file: %s
  # Scheduling group granted elevated nice limits
  group: %s
  # Account added to the group; also the service user
  user: %s
  # Soft and hard nice limit for the group
  nice_limit: %d
  # Per-step timeout in seconds
  step_timeout: %d

# systemd unit written by the tuner (never enabled or started)
service:
  name: %s
  description: %s
  working_dir: %s
  exec_start: %s
  restart: %s
  restart_sec: %d
  nice: %d
  unit_dir: %s

# Status collection and the generated monitor script
monitor:
  # Where the standalone monitor script is written (empty means ~/%s)
  script_path: ""
  # Command-line pattern identifying the LED controller process
  process_pattern: "%s"

# History of tune runs
history:
  enabled: true
  # Empty means $XDG_DATA_HOME/pitune/history
  path: ""
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/pitune/pitune.log)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    tuner: info
    monitor: info
    output: warn
`,
		DefaultGovernor, DefaultSysfsCPUPath, DefaultLimitsFile, DefaultGroup,
		DefaultUser, DefaultNiceLimit, DefaultStepTimeoutSeconds,
		DefaultServiceName, DefaultServiceDescription, DefaultWorkingDir,
		DefaultExecStart, DefaultRestartPolicy, DefaultRestartSec,
		DefaultServiceNice, DefaultUnitDir,
		DefaultScriptName, DefaultProcessPattern, DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/pitune/ for history files.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "pitune")
}

// StateDir returns $XDG_STATE_HOME/pitune/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "pitune")
}

// DefaultHistoryDir returns the default directory for history entries.
func DefaultHistoryDir() string {
	return filepath.Join(DataDir(), "history")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "pitune.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
