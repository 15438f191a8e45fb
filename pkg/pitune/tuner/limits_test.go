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

func TestLimitsStep_AppendsRulesOnce(t *testing.T) {
	limitsFile := filepath.Join(t.TempDir(), "limits.conf")
	require.NoError(t, os.WriteFile(limitsFile, []byte("# /etc/security/limits.conf\n"), 0o644))

	step := NewLimitsStep(limitsFile, "led-group", -10, false)

	result := step.Apply(context.Background())
	assert.Equal(t, OutcomeApplied, result.Outcome)

	data, err := os.ReadFile(limitsFile)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "@led-group soft nice -10")
	assert.Contains(t, content, "@led-group hard nice -10")

	firstRun := content

	// Second run: exactly-once semantics, zero new lines
	result = step.Apply(context.Background())
	assert.Equal(t, OutcomeUnchanged, result.Outcome)

	data, err = os.ReadFile(limitsFile)
	require.NoError(t, err)
	assert.Equal(t, firstRun, string(data), "repeat run must not append duplicate rules")
}

func TestLimitsStep_CountsExactlyTwoRuleLines(t *testing.T) {
	limitsFile := filepath.Join(t.TempDir(), "limits.conf")

	step := NewLimitsStep(limitsFile, "led-group", -10, false)
	require.Equal(t, OutcomeApplied, step.Apply(context.Background()).Outcome)

	data, err := os.ReadFile(limitsFile)
	require.NoError(t, err)

	var ruleLines int
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@led-group") {
			ruleLines++
		}
	}
	assert.Equal(t, 2, ruleLines)
}

func TestLimitsStep_ExistingRuleDetected(t *testing.T) {
	limitsFile := filepath.Join(t.TempDir(), "limits.conf")
	existing := "@led-group - nice -5\n"
	require.NoError(t, os.WriteFile(limitsFile, []byte(existing), 0o644))

	step := NewLimitsStep(limitsFile, "led-group", -10, false)
	result := step.Apply(context.Background())

	// Any line referencing the group blocks the append
	assert.Equal(t, OutcomeUnchanged, result.Outcome)

	data, err := os.ReadFile(limitsFile)
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}

func TestLimitsStep_CommentedRuleIgnored(t *testing.T) {
	limitsFile := filepath.Join(t.TempDir(), "limits.conf")
	require.NoError(t, os.WriteFile(limitsFile, []byte("# @led-group soft nice -10\n"), 0o644))

	step := NewLimitsStep(limitsFile, "led-group", -10, false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeApplied, result.Outcome, "commented references do not count as existing rules")
}

func TestLimitsStep_CreatesMissingFile(t *testing.T) {
	limitsFile := filepath.Join(t.TempDir(), "limits.conf")

	step := NewLimitsStep(limitsFile, "led-group", -10, false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeApplied, result.Outcome)

	data, err := os.ReadFile(limitsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@led-group soft nice -10")
}

func TestLimitsStep_PermissionDenied(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, file modes do not restrict access")
	}

	limitsFile := filepath.Join(t.TempDir(), "limits.conf")
	require.NoError(t, os.WriteFile(limitsFile, []byte(""), 0o444))

	step := NewLimitsStep(limitsFile, "led-group", -10, false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.NotEmpty(t, result.Err)
}

func TestLimitsStep_DryRun(t *testing.T) {
	limitsFile := filepath.Join(t.TempDir(), "limits.conf")
	require.NoError(t, os.WriteFile(limitsFile, []byte(""), 0o644))

	step := NewLimitsStep(limitsFile, "led-group", -10, true)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeDryRun, result.Outcome)

	data, err := os.ReadFile(limitsFile)
	require.NoError(t, err)
	assert.Empty(t, string(data), "dry run must not modify the limits file")
}

func TestHasGroupRule(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", false},
		{"matching rule", "@led-group soft nice -10\n", true},
		{"other group", "@audio - rtprio 95\n", false},
		{"comment only", "# @led-group soft nice -10\n", false},
		{"mixed", "# header\n@audio - rtprio 95\n@led-group hard nice -10\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasGroupRule(tt.content, "led-group"))
		})
	}
}
