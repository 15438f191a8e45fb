// Package tuner applies the Raspberry Pi performance tweaks for the LED
// controller service: CPU governor, systemd unit, scheduling group, nice
// limits, and the generated monitor script.
//
// Every step is idempotent and best-effort: a failing step is recorded in the
// run report and never aborts the steps after it.
package tuner

import (
	"context"
	"time"
)

// Outcome classifies what a step did to the system.
type Outcome string

// Step outcomes.
const (
	// OutcomeApplied means the step changed system state.
	OutcomeApplied Outcome = "applied"

	// OutcomeUnchanged means the desired state was already in place.
	OutcomeUnchanged Outcome = "unchanged"

	// OutcomeSkipped means the step had nothing it was allowed to change
	// (e.g. no writable governor controls). Not an error.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means the step could not complete. The run continues.
	OutcomeFailed Outcome = "failed"

	// OutcomeDryRun means the step only reported what it would change.
	OutcomeDryRun Outcome = "dry-run"
)

// StepResult records the outcome of a single tuning step.
type StepResult struct {
	// Name is the step identifier (e.g. "governor").
	Name string `json:"name"`

	// Category is the class of system change (e.g. "cpu", "systemd").
	Category string `json:"category"`

	// Outcome classifies the result.
	Outcome Outcome `json:"outcome"`

	// Detail is a human-readable summary of what happened.
	Detail string `json:"detail,omitempty"`

	// Err holds the failure message when Outcome is OutcomeFailed.
	Err string `json:"error,omitempty"`
}

// Step is a single idempotent tuning operation.
type Step interface {
	// Name returns the step identifier.
	Name() string

	// Category returns the class of system change the step makes.
	Category() string

	// Apply performs the step and reports what it did. Apply never returns
	// an error; failures are encoded in the result.
	Apply(ctx context.Context) StepResult
}

// WithheldChanges lists the classes of system change pitune deliberately
// never makes. The list is printed with every report as a safety contract.
var WithheldChanges = []string{
	"kernel parameters (sysctl)",
	"boot configuration (/boot/config.txt, cmdline.txt)",
	"CPU overclocking and voltage settings",
}

// Report is the outcome of a full tune run.
type Report struct {
	// Started is when the run began.
	Started time.Time `json:"started"`

	// Duration is the total run time.
	Duration time.Duration `json:"duration"`

	// DryRun indicates no system state was modified.
	DryRun bool `json:"dry_run"`

	// Results holds one entry per step, in execution order.
	Results []StepResult `json:"results"`

	// Withheld lists change classes that are permanently out of scope.
	Withheld []string `json:"withheld"`
}

// Counts returns the number of results per outcome class. DryRun results
// count as applied for summary purposes.
func (r *Report) Counts() (applied, unchanged, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeApplied, OutcomeDryRun:
			applied++
		case OutcomeUnchanged:
			unchanged++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return applied, unchanged, skipped, failed
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}
