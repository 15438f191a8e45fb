package tuner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"text/template"

	"github.com/ledpi/pitune/pkg/pitune/logging"
)

// unitTemplate is the fixed systemd unit layout. The tuner renders it and
// writes it unconditionally (last-write-wins); it never enables or starts
// the unit.
const unitTemplate = `[Unit]
Description={{.Description}}
After=network.target

[Service]
Type=simple
User={{.User}}
WorkingDirectory={{.WorkingDir}}
ExecStart={{.ExecStart}}
Restart={{.Restart}}
RestartSec={{.RestartSec}}
Nice={{.Nice}}

[Install]
WantedBy=multi-user.target
`

// UnitConfig holds the fields rendered into the service unit.
type UnitConfig struct {
	Description string
	User        string
	WorkingDir  string
	ExecStart   string
	Restart     string
	RestartSec  int
	Nice        int
}

// ServiceUnitStep renders the LED controller unit file to UnitPath.
type ServiceUnitStep struct {
	UnitPath string
	Unit     UnitConfig
	DryRun   bool

	log *logging.Logger
}

// NewServiceUnitStep creates the unit-writing step.
func NewServiceUnitStep(unitPath string, unit UnitConfig, dryRun bool) *ServiceUnitStep {
	return &ServiceUnitStep{
		UnitPath: unitPath,
		Unit:     unit,
		DryRun:   dryRun,
		log:      logging.Get("tuner"),
	}
}

// Name implements Step.
func (s *ServiceUnitStep) Name() string { return "service-unit" }

// Category implements Step.
func (s *ServiceUnitStep) Category() string { return "systemd" }

// RenderUnit renders the unit file contents for the given config.
func RenderUnit(unit UnitConfig) ([]byte, error) {
	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing unit template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, unit); err != nil {
		return nil, fmt.Errorf("rendering unit: %w", err)
	}
	return buf.Bytes(), nil
}

// Apply implements Step.
func (s *ServiceUnitStep) Apply(ctx context.Context) StepResult {
	result := StepResult{Name: s.Name(), Category: s.Category()}

	if err := ctx.Err(); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	rendered, err := RenderUnit(s.Unit)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	if existing, err := os.ReadFile(s.UnitPath); err == nil && bytes.Equal(existing, rendered) {
		result.Outcome = OutcomeUnchanged
		result.Detail = fmt.Sprintf("%s already up to date", s.UnitPath)
		return result
	}

	if s.DryRun {
		result.Outcome = OutcomeDryRun
		result.Detail = fmt.Sprintf("would write %s", s.UnitPath)
		return result
	}

	if err := os.WriteFile(s.UnitPath, rendered, 0o644); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	s.log.Info("service unit written", "path", s.UnitPath, "user", s.Unit.User, "nice", s.Unit.Nice)
	result.Outcome = OutcomeApplied
	result.Detail = fmt.Sprintf("wrote %s (not enabled)", s.UnitPath)
	return result
}
