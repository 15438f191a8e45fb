package tuner

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledpi/pitune/pkg/pitune/sysfs"
)

// fakeCPUTree builds a sysfs-like tree. governors maps core index to its
// current governor; readOnly cores get a 0444 control file.
func fakeCPUTree(t *testing.T, governors map[int]string, readOnly ...int) string {
	t.Helper()
	root := t.TempDir()

	for cpu, gov := range governors {
		dir := filepath.Join(root, "cpu"+strconv.Itoa(cpu), "cpufreq")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scaling_governor"), []byte(gov+"\n"), 0o644))
	}

	for _, cpu := range readOnly {
		path := sysfs.GovernorPath(root, cpu)
		require.NoError(t, os.Chmod(path, 0o444))
	}

	return root
}

func TestGovernorStep_SetsWritableCores(t *testing.T) {
	root := fakeCPUTree(t, map[int]string{0: "ondemand", 1: "ondemand"})

	step := NewGovernorStep(root, "performance", false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeApplied, result.Outcome)

	for cpu := 0; cpu < 2; cpu++ {
		gov, err := sysfs.ReadGovernor(root, cpu)
		require.NoError(t, err)
		assert.Equal(t, "performance", gov)
	}
}

func TestGovernorStep_SkipsReadOnlyCore(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, file modes do not restrict access")
	}

	// Two cores: cpu0 writable, cpu1 not.
	root := fakeCPUTree(t, map[int]string{0: "ondemand", 1: "ondemand"}, 1)

	step := NewGovernorStep(root, "performance", false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeApplied, result.Outcome)

	gov, err := sysfs.ReadGovernor(root, 0)
	require.NoError(t, err)
	assert.Equal(t, "performance", gov)

	gov, err = sysfs.ReadGovernor(root, 1)
	require.NoError(t, err)
	assert.Equal(t, "ondemand", gov, "read-only core must be untouched")
}

func TestGovernorStep_AllReadOnly(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, file modes do not restrict access")
	}

	root := fakeCPUTree(t, map[int]string{0: "ondemand"}, 0)

	step := NewGovernorStep(root, "performance", false)
	result := step.Apply(context.Background())

	// No writable cores is a silent skip, not a failure.
	assert.Equal(t, OutcomeSkipped, result.Outcome)
}

func TestGovernorStep_AlreadySet(t *testing.T) {
	root := fakeCPUTree(t, map[int]string{0: "performance", 1: "performance"})

	step := NewGovernorStep(root, "performance", false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeUnchanged, result.Outcome)
}

func TestGovernorStep_NoControls(t *testing.T) {
	// Cores without a cpufreq directory at all
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cpu0"), 0o755))

	step := NewGovernorStep(root, "performance", false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeSkipped, result.Outcome)
}

func TestGovernorStep_MissingRoot(t *testing.T) {
	step := NewGovernorStep(filepath.Join(t.TempDir(), "nope"), "performance", false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.NotEmpty(t, result.Err)
}

func TestGovernorStep_DryRun(t *testing.T) {
	root := fakeCPUTree(t, map[int]string{0: "ondemand"})

	step := NewGovernorStep(root, "performance", true)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeDryRun, result.Outcome)

	gov, err := sysfs.ReadGovernor(root, 0)
	require.NoError(t, err)
	assert.Equal(t, "ondemand", gov, "dry run must not modify the governor")
}
