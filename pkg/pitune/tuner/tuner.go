package tuner

import (
	"context"
	"time"

	"github.com/ledpi/pitune/pkg/pitune/config"
	"github.com/ledpi/pitune/pkg/pitune/logging"
)

// Options modify how a Tuner runs.
type Options struct {
	// DryRun makes every step report what it would change without
	// touching system state.
	DryRun bool

	// Runner executes external commands. Nil means ExecRunner.
	Runner Runner

	// StepTimeout bounds each step. Zero means the config default.
	StepTimeout time.Duration
}

// Tuner runs the tuning steps in a fixed order, collecting every outcome
// without short-circuiting.
type Tuner struct {
	steps       []Step
	stepTimeout time.Duration
	dryRun      bool
	log         *logging.Logger
}

// New builds a Tuner from configuration. Step order matches the applied
// sequence: governor, service unit, group, limits, monitor script.
func New(cfg *config.Config, opts Options) *Tuner {
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	timeout := opts.StepTimeout
	if timeout <= 0 {
		timeout = cfg.Tuner.StepTimeoutDuration()
	}

	unit := UnitConfig{
		Description: cfg.Service.Description,
		User:        cfg.Tuner.User,
		WorkingDir:  cfg.Service.WorkingDir,
		ExecStart:   cfg.Service.ExecStart,
		Restart:     cfg.Service.Restart,
		RestartSec:  cfg.Service.RestartSec,
		Nice:        cfg.Service.Nice,
	}

	script := ScriptConfig{
		SysfsPath:      cfg.Tuner.SysfsPath,
		ProcessPattern: cfg.Monitor.ProcessPattern,
		ServiceName:    cfg.Service.Name,
	}

	steps := []Step{
		NewGovernorStep(cfg.Tuner.SysfsPath, cfg.Tuner.Governor, opts.DryRun),
		NewServiceUnitStep(cfg.Service.UnitPath(), unit, opts.DryRun),
		NewGroupStep(cfg.Tuner.Group, cfg.Tuner.User, runner, opts.DryRun),
		NewLimitsStep(cfg.Tuner.LimitsFile, cfg.Tuner.Group, cfg.Tuner.NiceLimit, opts.DryRun),
		NewMonitorScriptStep(cfg.Monitor.ScriptPath, script, opts.DryRun),
	}

	return &Tuner{
		steps:       steps,
		stepTimeout: timeout,
		dryRun:      opts.DryRun,
		log:         logging.Get("tuner"),
	}
}

// NewWithSteps builds a Tuner over an explicit step list. Used by tests and
// the script command, which runs the monitor-script step alone.
func NewWithSteps(steps []Step, stepTimeout time.Duration, dryRun bool) *Tuner {
	if stepTimeout <= 0 {
		stepTimeout = config.DefaultStepTimeoutSeconds * time.Second
	}
	return &Tuner{
		steps:       steps,
		stepTimeout: stepTimeout,
		dryRun:      dryRun,
		log:         logging.Get("tuner"),
	}
}

// Run executes every step in order and returns the full report. A failing
// step is recorded and the run continues; Run itself never returns an error.
func (t *Tuner) Run(ctx context.Context) *Report {
	report := &Report{
		Started:  time.Now(),
		DryRun:   t.dryRun,
		Withheld: WithheldChanges,
	}

	for _, step := range t.steps {
		stepCtx, cancel := context.WithTimeout(ctx, t.stepTimeout)
		result := step.Apply(stepCtx)
		cancel()

		switch result.Outcome {
		case OutcomeFailed:
			t.log.Error("step failed", "step", result.Name, "error", result.Err)
		default:
			t.log.Info("step finished", "step", result.Name, "outcome", result.Outcome, "detail", result.Detail)
		}

		report.Results = append(report.Results, result)
	}

	report.Duration = time.Since(report.Started)
	return report
}
