package tuner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/ledpi/pitune/pkg/pitune/logging"
)

// monitorScriptTemplate is the standalone diagnostic script the tuner
// generates. It has no dependency on pitune once written: plain shell over
// sysfs, free, pgrep and ps, with "Unknown"/"Not running" fallbacks instead
// of errors. The per-core "Active" lines keep the original placeholder; the
// status command reports real per-core utilization.
const monitorScriptTemplate = `#!/bin/bash
# Generated by pitune. Point-in-time performance report for the LED controller.

echo "=== LED Controller Performance Monitor ==="
echo "Time: $(date '+%Y-%m-%d %H:%M:%S')"
echo ""

CORES=$(nproc 2>/dev/null || echo "Unknown")
echo "CPU cores: $CORES"

GOV_FILE="{{.SysfsPath}}/cpu0/cpufreq/scaling_governor"
if [ -r "$GOV_FILE" ]; then
    echo "Governor (cpu0): $(cat "$GOV_FILE")"
else
    echo "Governor (cpu0): Unknown"
fi

if [ "$CORES" != "Unknown" ]; then
    for i in $(seq 0 $((CORES - 1))); do
        echo "  Core $i: Active"
    done
fi

echo ""
echo "--- Memory ---"
free -h

echo ""
echo "--- LED Controller Process ---"
PID=$(pgrep -f "{{.ProcessPattern}}" | head -n 1)
if [ -n "$PID" ]; then
    STATS=$(ps -p "$PID" -o %cpu=,rss= 2>/dev/null)
    if [ -n "$STATS" ]; then
        CPU=$(echo "$STATS" | awk '{print $1}')
        MEM_MB=$(echo "$STATS" | awk '{printf "%.1f", $2/1024}')
        echo "Status: running (pid $PID)"
        echo "CPU: ${CPU}%"
        echo "Memory: ${MEM_MB} MB"
    else
        echo "Status: running (pid $PID)"
        echo "CPU: Unknown"
        echo "Memory: Unknown"
    fi
else
    echo "Status: Not running"
fi

echo ""
echo "--- Hints ---"
echo "Revert governor: echo ondemand | sudo tee {{.SysfsPath}}/cpu*/cpufreq/scaling_governor"
echo "Enable service:  sudo systemctl enable --now {{.ServiceName}}.service"
echo "Stop service:    sudo systemctl stop {{.ServiceName}}.service"
`

// ScriptConfig holds the values baked into the generated monitor script.
type ScriptConfig struct {
	SysfsPath      string
	ProcessPattern string
	ServiceName    string
}

// MonitorScriptStep writes the monitor script artifact and marks it
// executable.
type MonitorScriptStep struct {
	Path   string
	Script ScriptConfig
	DryRun bool

	log *logging.Logger
}

// NewMonitorScriptStep creates the script-generation step.
func NewMonitorScriptStep(path string, script ScriptConfig, dryRun bool) *MonitorScriptStep {
	return &MonitorScriptStep{
		Path:   path,
		Script: script,
		DryRun: dryRun,
		log:    logging.Get("tuner"),
	}
}

// Name implements Step.
func (s *MonitorScriptStep) Name() string { return "monitor-script" }

// Category implements Step.
func (s *MonitorScriptStep) Category() string { return "diagnostics" }

// RenderMonitorScript renders the monitor script contents.
func RenderMonitorScript(cfg ScriptConfig) ([]byte, error) {
	tmpl, err := template.New("monitor").Parse(monitorScriptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing monitor script template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return nil, fmt.Errorf("rendering monitor script: %w", err)
	}
	return buf.Bytes(), nil
}

// Apply implements Step.
func (s *MonitorScriptStep) Apply(ctx context.Context) StepResult {
	result := StepResult{Name: s.Name(), Category: s.Category()}

	if err := ctx.Err(); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	rendered, err := RenderMonitorScript(s.Script)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	if existing, err := os.ReadFile(s.Path); err == nil && bytes.Equal(existing, rendered) {
		// Content matches; still make sure the mode is executable.
		if !s.DryRun {
			_ = os.Chmod(s.Path, 0o755)
		}
		result.Outcome = OutcomeUnchanged
		result.Detail = fmt.Sprintf("%s already up to date", s.Path)
		return result
	}

	if s.DryRun {
		result.Outcome = OutcomeDryRun
		result.Detail = fmt.Sprintf("would write %s", s.Path)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	if err := os.WriteFile(s.Path, rendered, 0o755); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	s.log.Info("monitor script generated", "path", s.Path)
	result.Outcome = OutcomeApplied
	result.Detail = fmt.Sprintf("wrote %s (executable)", s.Path)
	return result
}
