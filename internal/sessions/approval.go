package sessions

import (
	"context"
	"fmt"
	"strings"
)

// ApprovalResult is the structured outcome of an approval gate call.
// Failures are reported here rather than as errors so callers can relay
// the message to the reviewer directly.
type ApprovalResult struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Metadata ApprovalMetadata `json:"metadata"`

	reason error
}

// ApprovalMetadata carries gate context alongside the result message.
type ApprovalMetadata struct {
	Step            string `json:"step,omitempty"`
	CanProceed      bool   `json:"can_proceed"`
	AlreadyApproved bool   `json:"already_approved"`
}

// Err returns the sentinel error behind a failed result, or nil on success.
func (r ApprovalResult) Err() error {
	return r.reason
}

// approveStep implements the approval gate against any System. It is the
// only path that sets an approval flag: step handlers never approve their
// own output.
func approveStep(ctx context.Context, sys System, sessionID, stepName string) ApprovalResult {
	step, err := ParseStep(stepName)
	if err != nil {
		return ApprovalResult{
			Message: fmt.Sprintf(
				"%q is not a workflow step. Valid steps: %s.",
				stepName, stepNames(),
			),
			Metadata: ApprovalMetadata{Step: stepName},
			reason:   ErrInvalidStep,
		}
	}

	state := sys.Get(ctx, sessionID)

	if !state.StepCompleted(step) {
		return ApprovalResult{
			Message: fmt.Sprintf(
				"The %s step is not yet completed, so there is nothing to approve. Run the step first.",
				step,
			),
			Metadata: ApprovalMetadata{Step: string(step)},
			reason:   ErrStepNotCompleted,
		}
	}

	if state.StepApproved(step) {
		return ApprovalResult{
			Success: true,
			Message: fmt.Sprintf("The %s step is already approved.", step),
			Metadata: ApprovalMetadata{
				Step:            string(step),
				AlreadyApproved: true,
				CanProceed:      sys.CanAdvance(ctx, sessionID),
			},
		}
	}

	if err := sys.MarkStepApproved(ctx, sessionID, step); err != nil {
		return ApprovalResult{
			Message:  "Something went wrong recording the approval. Please try again.",
			Metadata: ApprovalMetadata{Step: string(step)},
			reason:   err,
		}
	}

	return ApprovalResult{
		Success: true,
		Message: fmt.Sprintf("The %s step has been approved.", step),
		Metadata: ApprovalMetadata{
			Step:       string(step),
			CanProceed: sys.CanAdvance(ctx, sessionID),
		},
	}
}

func stepNames() string {
	names := make([]string, len(stepOrder))
	for i, s := range stepOrder {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
