package tuner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUnitConfig() UnitConfig {
	return UnitConfig{
		Description: "LED Controller Service",
		User:        "pi",
		WorkingDir:  "/home/pi/led-controller",
		ExecStart:   "/usr/bin/python3 main.py",
		Restart:     "always",
		RestartSec:  5,
		Nice:        -5,
	}
}

func TestRenderUnit(t *testing.T) {
	rendered, err := RenderUnit(testUnitConfig())
	require.NoError(t, err)

	content := string(rendered)
	assert.Contains(t, content, "Description=LED Controller Service")
	assert.Contains(t, content, "User=pi")
	assert.Contains(t, content, "WorkingDirectory=/home/pi/led-controller")
	assert.Contains(t, content, "ExecStart=/usr/bin/python3 main.py")
	assert.Contains(t, content, "Restart=always")
	assert.Contains(t, content, "RestartSec=5")
	assert.Contains(t, content, "Nice=-5")
	assert.Contains(t, content, "WantedBy=multi-user.target")
}

func TestServiceUnitStep_WritesUnit(t *testing.T) {
	unitPath := filepath.Join(t.TempDir(), "led-controller.service")

	step := NewServiceUnitStep(unitPath, testUnitConfig(), false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeApplied, result.Outcome)

	data, err := os.ReadFile(unitPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "User=pi")
}

func TestServiceUnitStep_FullReplace(t *testing.T) {
	unitPath := filepath.Join(t.TempDir(), "led-controller.service")

	first := testUnitConfig()
	step := NewServiceUnitStep(unitPath, first, false)
	require.Equal(t, OutcomeApplied, step.Apply(context.Background()).Outcome)

	// Rewriting with different values fully replaces the old file
	second := first
	second.WorkingDir = "/opt/leds"
	second.Restart = "on-failure"
	step = NewServiceUnitStep(unitPath, second, false)
	result := step.Apply(context.Background())
	assert.Equal(t, OutcomeApplied, result.Outcome)

	data, err := os.ReadFile(unitPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "WorkingDirectory=/opt/leds")
	assert.Contains(t, content, "Restart=on-failure")
	assert.NotContains(t, content, "/home/pi/led-controller", "old values must not survive a rewrite")
	assert.NotContains(t, content, "Restart=always")
}

func TestServiceUnitStep_Unchanged(t *testing.T) {
	unitPath := filepath.Join(t.TempDir(), "led-controller.service")

	step := NewServiceUnitStep(unitPath, testUnitConfig(), false)
	require.Equal(t, OutcomeApplied, step.Apply(context.Background()).Outcome)

	result := step.Apply(context.Background())
	assert.Equal(t, OutcomeUnchanged, result.Outcome)
}

func TestServiceUnitStep_PermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, file modes do not restrict access")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	step := NewServiceUnitStep(filepath.Join(dir, "led.service"), testUnitConfig(), false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.NotEmpty(t, result.Err)
}

func TestServiceUnitStep_DryRun(t *testing.T) {
	unitPath := filepath.Join(t.TempDir(), "led-controller.service")

	step := NewServiceUnitStep(unitPath, testUnitConfig(), true)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeDryRun, result.Outcome)
	assert.True(t, strings.Contains(result.Detail, unitPath))

	_, err := os.Stat(unitPath)
	assert.True(t, os.IsNotExist(err), "dry run must not write the unit file")
}
