package tuner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ledpi/pitune/pkg/pitune/logging"
	"github.com/ledpi/pitune/pkg/pitune/sysfs"
)

// GovernorStep writes the scaling governor to every core that exposes a
// writable control. Cores without write access are left untouched and do not
// fail the step.
type GovernorStep struct {
	Root   string
	Mode   string
	DryRun bool

	log *logging.Logger
}

// NewGovernorStep creates the governor step for the given sysfs root.
func NewGovernorStep(root, mode string, dryRun bool) *GovernorStep {
	return &GovernorStep{
		Root:   root,
		Mode:   mode,
		DryRun: dryRun,
		log:    logging.Get("tuner"),
	}
}

// Name implements Step.
func (s *GovernorStep) Name() string { return "governor" }

// Category implements Step.
func (s *GovernorStep) Category() string { return "cpu" }

// Apply implements Step.
func (s *GovernorStep) Apply(ctx context.Context) StepResult {
	result := StepResult{Name: s.Name(), Category: s.Category()}

	cpus, err := sysfs.ListCPUs(s.Root)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	var set, already, readOnly, absent, failed int
	for _, cpu := range cpus {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = err.Error()
			return result
		}

		path := sysfs.GovernorPath(s.Root, cpu)
		if !sysfs.Exists(path) {
			absent++
			continue
		}
		if !sysfs.Writable(path) {
			readOnly++
			s.log.Debug("governor control not writable", "cpu", cpu)
			continue
		}

		current, err := sysfs.ReadGovernor(s.Root, cpu)
		if err == nil && current == s.Mode {
			already++
			continue
		}

		if s.DryRun {
			set++
			continue
		}

		if err := sysfs.WriteGovernor(s.Root, cpu, s.Mode); err != nil {
			if errors.Is(err, os.ErrPermission) {
				// Lost write access between probe and write; same
				// treatment as an unwritable core.
				readOnly++
				continue
			}
			failed++
			s.log.Warn("governor write failed", "cpu", cpu, "error", err)
			continue
		}
		set++
		s.log.Info("governor set", "cpu", cpu, "mode", s.Mode)
	}

	result.Detail = fmt.Sprintf("%d set, %d already %s, %d read-only, %d without control",
		set, already, s.Mode, readOnly, absent)

	switch {
	case failed > 0 && set == 0 && already == 0:
		result.Outcome = OutcomeFailed
		result.Err = fmt.Sprintf("%d governor writes failed", failed)
	case s.DryRun && set > 0:
		result.Outcome = OutcomeDryRun
		result.Detail = fmt.Sprintf("would set %d cores to %s", set, s.Mode)
	case set > 0:
		result.Outcome = OutcomeApplied
	case already > 0:
		result.Outcome = OutcomeUnchanged
	default:
		// No writable cores at all: silently skipped per contract.
		result.Outcome = OutcomeSkipped
	}

	return result
}
