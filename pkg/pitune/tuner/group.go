package tuner

import (
	"context"
	"fmt"

	"github.com/ledpi/pitune/pkg/pitune/logging"
)

// groupExistsExit is groupadd's exit code when the group is already present.
// Already-exists is a success for this step, not an error.
const groupExistsExit = 9

// GroupStep ensures the scheduling group exists and the service user is a
// member. Both operations go through the injected Runner.
type GroupStep struct {
	Group  string
	User   string
	Runner Runner
	DryRun bool

	log *logging.Logger
}

// NewGroupStep creates the group-management step.
func NewGroupStep(group, user string, runner Runner, dryRun bool) *GroupStep {
	return &GroupStep{
		Group:  group,
		User:   user,
		Runner: runner,
		DryRun: dryRun,
		log:    logging.Get("tuner"),
	}
}

// Name implements Step.
func (s *GroupStep) Name() string { return "group" }

// Category implements Step.
func (s *GroupStep) Category() string { return "accounts" }

// Apply implements Step.
func (s *GroupStep) Apply(ctx context.Context) StepResult {
	result := StepResult{Name: s.Name(), Category: s.Category()}

	if s.DryRun {
		result.Outcome = OutcomeDryRun
		result.Detail = fmt.Sprintf("would ensure group %s with member %s", s.Group, s.User)
		return result
	}

	created := false
	out, code, err := s.Runner.Run(ctx, "groupadd", s.Group)
	switch {
	case err != nil:
		result.Outcome = OutcomeFailed
		result.Err = fmt.Sprintf("groupadd: %v", err)
		return result
	case code == 0:
		created = true
		s.log.Info("group created", "group", s.Group)
	case code == groupExistsExit:
		s.log.Debug("group already exists", "group", s.Group)
	default:
		result.Outcome = OutcomeFailed
		result.Err = fmt.Sprintf("groupadd exited %d: %s", code, out)
		return result
	}

	out, code, err = s.Runner.Run(ctx, "usermod", "-a", "-G", s.Group, s.User)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Sprintf("usermod: %v", err)
		return result
	}
	if code != 0 {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Sprintf("usermod exited %d: %s", code, out)
		return result
	}

	if created {
		result.Outcome = OutcomeApplied
		result.Detail = fmt.Sprintf("created group %s, added %s", s.Group, s.User)
	} else {
		result.Outcome = OutcomeUnchanged
		result.Detail = fmt.Sprintf("group %s exists, %s membership ensured", s.Group, s.User)
	}

	s.log.Info("group membership ensured", "group", s.Group, "user", s.User)
	return result
}
