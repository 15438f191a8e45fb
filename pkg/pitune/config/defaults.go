// Package config provides configuration management for the pitune performance tuner.
package config

// Default configuration values for pitune.
const (
	// DefaultGovernor is the scaling governor applied by the tune command.
	DefaultGovernor = "performance"

	// DefaultSysfsCPUPath is the sysfs tree holding per-core governor controls.
	DefaultSysfsCPUPath = "/sys/devices/system/cpu"

	// DefaultLimitsFile is the PAM limits file that receives nice-priority rules.
	DefaultLimitsFile = "/etc/security/limits.conf"

	// DefaultGroup is the scheduling group granted elevated nice limits.
	DefaultGroup = "led-group"

	// DefaultUser is the account the LED controller service runs as.
	DefaultUser = "pi"

	// DefaultNiceLimit is the soft and hard nice limit granted to the group.
	DefaultNiceLimit = -10

	// DefaultStepTimeoutSeconds bounds each individual tuning step.
	DefaultStepTimeoutSeconds = 10

	// DefaultServiceName is the systemd unit name (without the .service suffix).
	DefaultServiceName = "led-controller"

	// DefaultServiceDescription is the unit Description field.
	DefaultServiceDescription = "LED Controller Service"

	// DefaultWorkingDir is the unit WorkingDirectory field.
	DefaultWorkingDir = "/home/pi/led-controller"

	// DefaultExecStart is the unit ExecStart field.
	DefaultExecStart = "/usr/bin/python3 main.py"

	// DefaultRestartPolicy is the unit Restart field.
	DefaultRestartPolicy = "always"

	// DefaultRestartSec is the unit RestartSec field in seconds.
	DefaultRestartSec = 5

	// DefaultServiceNice is the unit Nice field. The LED render loop asks for
	// the same boost itself, so the unit and the process agree.
	DefaultServiceNice = -5

	// DefaultUnitDir is the directory the rendered unit file is written to.
	DefaultUnitDir = "/etc/systemd/system"

	// DefaultProcessPattern matches the LED controller command line for
	// pgrep-style lookups.
	DefaultProcessPattern = "python3 .*main.py"

	// DefaultScriptName is the generated monitor script filename, placed in
	// the invoking user's home directory.
	DefaultScriptName = "monitor_performance.sh"

	// DefaultRetentionDays is the default number of days to retain history entries.
	DefaultRetentionDays = 30
)
