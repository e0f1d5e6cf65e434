package sessions

import (
	"context"

	"github.com/storytime-labs/storytime/pkg/pagination"
)

// System defines the public contract for workflow state operations.
// It is the sole reader and mutator of persisted WorkflowState: step
// handlers submit typed patches, the approval gate records sign-off, and
// advancement is gated on both completion and approval.
type System interface {
	Handler() *Handler

	// Get returns the session's state, or a fresh default state when none
	// exists. It never fails: storage errors degrade to a default state
	// (logged), and the default is not persisted until the first update.
	Get(ctx context.Context, sessionID string) *WorkflowState

	// Update applies a typed partial overwrite atomically, stamps
	// UpdatedAt, and persists. Write errors propagate to the caller.
	Update(ctx context.Context, sessionID string, patch Patch) error

	// StepCompleted reports whether the step has produced its data.
	StepCompleted(ctx context.Context, sessionID string, step Step) bool

	// MarkStepApproved records human sign-off for a step and persists.
	// Approving an already-approved step is a no-op success.
	MarkStepApproved(ctx context.Context, sessionID string, step Step) error

	// ResetApproval clears a step's sign-off after its data has been
	// regenerated. Clearing an unapproved step is a no-op success.
	ResetApproval(ctx context.Context, sessionID string, step Step) error

	// CanAdvance reports whether the current step is completed and approved.
	CanAdvance(ctx context.Context, sessionID string) bool

	// Advance moves the session to the next step when the gate allows it.
	// Returns the new step, or false with no state change when gated or
	// already at the terminal step.
	Advance(ctx context.Context, sessionID string) (Step, bool, error)

	// ApproveStep is the approval gate: it translates a reviewer's signal
	// into a recorded approval, rejecting unknown steps and incomplete work
	// with structured failures rather than errors.
	ApproveStep(ctx context.Context, sessionID, stepName string) ApprovalResult

	// List returns a paginated view of known sessions.
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Summary], error)
}
