package sessions

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/storytime-labs/storytime/pkg/pagination"
)

// memory is an in-memory System with the same gating semantics as the
// postgres repository. It backs tests and storage-free local runs.
type memory struct {
	mu         sync.Mutex
	states     map[string]*WorkflowState
	logger     *slog.Logger
	pagination pagination.Config
}

// NewMemory creates an in-memory workflow state manager. Each instance
// owns isolated state, so tests can construct one per case.
func NewMemory(logger *slog.Logger, pagination pagination.Config) System {
	return &memory{
		states:     make(map[string]*WorkflowState),
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (m *memory) Handler() *Handler {
	return NewHandler(m, m.logger, m.pagination)
}

func (m *memory) Get(_ context.Context, sessionID string) *WorkflowState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[sessionID]
	if !ok {
		return NewState()
	}
	return state.clone()
}

func (m *memory) Update(_ context.Context, sessionID string, patch Patch) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	m.mutate(sessionID, func(state *WorkflowState) bool {
		patch.apply(state)
		return true
	})
	return nil
}

func (m *memory) StepCompleted(ctx context.Context, sessionID string, step Step) bool {
	return m.Get(ctx, sessionID).StepCompleted(step)
}

func (m *memory) MarkStepApproved(_ context.Context, sessionID string, step Step) error {
	m.mutate(sessionID, func(state *WorkflowState) bool {
		if state.Approvals[step] {
			return false
		}
		state.Approvals[step] = true
		return true
	})
	return nil
}

func (m *memory) ResetApproval(_ context.Context, sessionID string, step Step) error {
	m.mutate(sessionID, func(state *WorkflowState) bool {
		if !state.Approvals[step] {
			return false
		}
		delete(state.Approvals, step)
		return true
	})
	return nil
}

func (m *memory) CanAdvance(ctx context.Context, sessionID string) bool {
	return m.Get(ctx, sessionID).CanAdvance()
}

func (m *memory) Advance(_ context.Context, sessionID string) (Step, bool, error) {
	var next Step
	advanced := false

	m.mutate(sessionID, func(state *WorkflowState) bool {
		if !state.CanAdvance() {
			return false
		}

		n, ok := state.NextStep()
		if !ok {
			return false
		}

		state.CurrentStep = n
		next = n
		advanced = true
		return true
	})

	return next, advanced, nil
}

func (m *memory) ApproveStep(ctx context.Context, sessionID, stepName string) ApprovalResult {
	return approveStep(ctx, m, sessionID, stepName)
}

func (m *memory) List(
	_ context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Summary], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	page.Normalize(m.pagination)

	summaries := make([]Summary, 0, len(m.states))
	for id, state := range m.states {
		if filters.CurrentStep != nil && state.CurrentStep != *filters.CurrentStep {
			continue
		}
		summaries = append(summaries, Summary{
			SessionID:   id,
			CurrentStep: state.CurrentStep,
			CreatedAt:   state.CreatedAt,
			UpdatedAt:   state.UpdatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})

	total := len(summaries)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)

	result := pagination.NewPageResult(summaries[start:end], total, page.Page, page.PageSize)
	return &result, nil
}

func (m *memory) mutate(sessionID string, fn func(state *WorkflowState) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[sessionID]
	if !ok {
		state = NewState()
	} else {
		state = state.clone()
	}

	if !fn(state) {
		return
	}

	state.UpdatedAt = time.Now().UTC()
	m.states[sessionID] = state
}
