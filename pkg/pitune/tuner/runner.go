package tuner

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner executes external system commands (groupadd, usermod). It exists so
// tests can substitute a fake without shelling out.
type Runner interface {
	// Run executes a command and returns its combined output and exit code.
	// err is non-nil only when the command could not be run at all (not
	// found, context cancelled); a non-zero exit is not an error here.
	Run(ctx context.Context, name string, args ...string) (output string, exitCode int, err error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, exitErr.ExitCode(), nil
		}
		return output, -1, err
	}

	return output, 0, nil
}
