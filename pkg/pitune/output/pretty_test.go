package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledpi/pitune/pkg/pitune/monitor"
)

func TestPrettyFormatter_Report(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Report: sampleReport()})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Tune Report")
	assert.Contains(t, out, "cpu-governor")
	assert.Contains(t, out, "performance set on 4 cores")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "1 applied, 1 unchanged, 0 skipped, 1 failed")
	assert.Contains(t, out, "kernel parameters (sysctl)")
}

func TestPrettyFormatter_DryRunTitle(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	report := sampleReport()
	report.DryRun = true

	err := formatter.Format(&buf, &Result{Report: report})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "(dry run)")
}

func TestPrettyFormatter_Snapshot(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, &Result{Snapshot: sampleSnapshot()})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "System Status")
	assert.Contains(t, out, "raspberrypi")
	assert.Contains(t, out, "performance")
	assert.Contains(t, out, "core 2:")
	assert.Contains(t, out, "88.2%")
	assert.Contains(t, out, "512 MiB / 1.0 GiB (50.0%)")
	assert.Contains(t, out, "running (pid 1234, 42.5% cpu, 38.2 MB)")
}

func TestPrettyFormatter_SnapshotNotRunning(t *testing.T) {
	formatter := &PrettyFormatter{}
	var buf bytes.Buffer

	snap := sampleSnapshot()
	snap.Process.Status = "not running"
	snap.Process.PID = 0

	err := formatter.Format(&buf, &Result{Snapshot: snap})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "not running")
}

func TestFormatMemory_Empty(t *testing.T) {
	assert.Equal(t, "none", formatMemory(monitor.MemoryInfo{}))
}
