package tuner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledpi/pitune/pkg/pitune/logging"
)

// LimitsStep appends soft and hard nice rules for the group to the PAM
// limits file, exactly once: any existing line referencing the group means
// the rules are already in place and nothing is appended.
type LimitsStep struct {
	LimitsFile string
	Group      string
	NiceLimit  int
	DryRun     bool

	log *logging.Logger
}

// NewLimitsStep creates the limits-rule step.
func NewLimitsStep(limitsFile, group string, niceLimit int, dryRun bool) *LimitsStep {
	return &LimitsStep{
		LimitsFile: limitsFile,
		Group:      group,
		NiceLimit:  niceLimit,
		DryRun:     dryRun,
		log:        logging.Get("tuner"),
	}
}

// Name implements Step.
func (s *LimitsStep) Name() string { return "limits" }

// Category implements Step.
func (s *LimitsStep) Category() string { return "limits" }

// ruleLines returns the two lines this step maintains.
func (s *LimitsStep) ruleLines() []string {
	return []string{
		fmt.Sprintf("@%s soft nice %d", s.Group, s.NiceLimit),
		fmt.Sprintf("@%s hard nice %d", s.Group, s.NiceLimit),
	}
}

// hasGroupRule reports whether any non-comment line references the group.
func hasGroupRule(content, group string) bool {
	marker := "@" + group
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// Apply implements Step.
func (s *LimitsStep) Apply(ctx context.Context) StepResult {
	result := StepResult{Name: s.Name(), Category: s.Category()}

	if err := ctx.Err(); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	data, err := os.ReadFile(s.LimitsFile)
	if err != nil && !os.IsNotExist(err) {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	if hasGroupRule(string(data), s.Group) {
		result.Outcome = OutcomeUnchanged
		result.Detail = fmt.Sprintf("@%s rules already present", s.Group)
		return result
	}

	if s.DryRun {
		result.Outcome = OutcomeDryRun
		result.Detail = fmt.Sprintf("would append %d rules for @%s", len(s.ruleLines()), s.Group)
		return result
	}

	f, err := os.OpenFile(s.LimitsFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}
	defer func() { _ = f.Close() }()

	var block strings.Builder
	block.WriteString(fmt.Sprintf("# %s nice limits (added by pitune)\n", s.Group))
	for _, line := range s.ruleLines() {
		block.WriteString(line)
		block.WriteString("\n")
	}

	if _, err := f.WriteString(block.String()); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err.Error()
		return result
	}

	s.log.Info("limits rules appended", "file", s.LimitsFile, "group", s.Group, "nice", s.NiceLimit)
	result.Outcome = OutcomeApplied
	result.Detail = fmt.Sprintf("appended soft and hard nice %d for @%s", s.NiceLimit, s.Group)
	return result
}
