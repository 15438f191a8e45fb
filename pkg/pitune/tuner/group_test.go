package tuner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner returns canned results per command name and records calls.
type fakeRunner struct {
	codes  map[string]int
	errs   map[string]error
	output map[string]string
	calls  [][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		codes:  make(map[string]int),
		errs:   make(map[string]error),
		output: make(map[string]string),
	}
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, int, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.output[name], r.codes[name], r.errs[name]
}

func TestGroupStep_CreatesGroup(t *testing.T) {
	runner := newFakeRunner()

	step := NewGroupStep("led-group", "pi", runner, false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeApplied, result.Outcome)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"groupadd", "led-group"}, runner.calls[0])
	assert.Equal(t, []string{"usermod", "-a", "-G", "led-group", "pi"}, runner.calls[1])
}

func TestGroupStep_GroupAlreadyExists(t *testing.T) {
	runner := newFakeRunner()
	runner.codes["groupadd"] = groupExistsExit

	step := NewGroupStep("led-group", "pi", runner, false)
	result := step.Apply(context.Background())

	// Already-exists is success, not an error
	assert.Equal(t, OutcomeUnchanged, result.Outcome)
	assert.Empty(t, result.Err)
	require.Len(t, runner.calls, 2, "membership is still ensured")
}

func TestGroupStep_GroupaddFails(t *testing.T) {
	runner := newFakeRunner()
	runner.codes["groupadd"] = 10
	runner.output["groupadd"] = "cannot lock /etc/group"

	step := NewGroupStep("led-group", "pi", runner, false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Contains(t, result.Err, "cannot lock /etc/group")
	require.Len(t, runner.calls, 1, "usermod must not run after groupadd failure")
}

func TestGroupStep_UsermodFails(t *testing.T) {
	runner := newFakeRunner()
	runner.codes["usermod"] = 6
	runner.output["usermod"] = "user 'pi' does not exist"

	step := NewGroupStep("led-group", "pi", runner, false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Contains(t, result.Err, "does not exist")
}

func TestGroupStep_CommandNotFound(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["groupadd"] = errors.New("exec: \"groupadd\": executable file not found in $PATH")

	step := NewGroupStep("led-group", "pi", runner, false)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Contains(t, result.Err, "groupadd")
}

func TestGroupStep_DryRun(t *testing.T) {
	runner := newFakeRunner()

	step := NewGroupStep("led-group", "pi", runner, true)
	result := step.Apply(context.Background())

	assert.Equal(t, OutcomeDryRun, result.Outcome)
	assert.Empty(t, runner.calls, "dry run must not execute commands")
}
