package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storytime-labs/storytime/pkg/pagination"
	"github.com/storytime-labs/storytime/pkg/query"
	"github.com/storytime-labs/storytime/pkg/repository"
)

const selectStateSQL = `
	SELECT current_step, challenge_data, seed_image_path, book_content,
	       illustrations, pdf_path, approvals, created_at, updated_at
	FROM workflow_sessions
	WHERE session_id = $1`

const selectStateForUpdateSQL = selectStateSQL + `
	FOR UPDATE`

const upsertStateSQL = `
	INSERT INTO workflow_sessions
		(session_id, current_step, challenge_data, seed_image_path,
		 book_content, illustrations, pdf_path, approvals, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (session_id) DO UPDATE SET
		current_step = EXCLUDED.current_step,
		challenge_data = EXCLUDED.challenge_data,
		seed_image_path = EXCLUDED.seed_image_path,
		book_content = EXCLUDED.book_content,
		illustrations = EXCLUDED.illustrations,
		pdf_path = EXCLUDED.pdf_path,
		approvals = EXCLUDED.approvals,
		updated_at = EXCLUDED.updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	locks      *sessionLocks
}

// New creates a postgres-backed workflow state manager implementing the
// System interface. Updates for one session serialize through a
// per-session mutex and a row-level lock; different sessions never block
// each other.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
		locks:      newSessionLocks(),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Get(ctx context.Context, sessionID string) *WorkflowState {
	row, err := repository.QueryOne(ctx, r.db, selectStateSQL, []any{sessionID}, scanState)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error(
				"workflow state read failed, degrading to default state",
				"session_id", sessionID,
				"error", err,
			)
		}
		return NewState()
	}

	state, err := deserializeState(row)
	if err != nil {
		r.logger.Error(
			"workflow state deserialization failed, degrading to default state",
			"session_id", sessionID,
			"error", err,
		)
		return NewState()
	}

	return state
}

func (r *repo) Update(ctx context.Context, sessionID string, patch Patch) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	err := r.mutate(ctx, sessionID, func(state *WorkflowState) (bool, error) {
		patch.apply(state)
		return true, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("workflow state updated", "session_id", sessionID)
	return nil
}

func (r *repo) StepCompleted(ctx context.Context, sessionID string, step Step) bool {
	return r.Get(ctx, sessionID).StepCompleted(step)
}

func (r *repo) MarkStepApproved(ctx context.Context, sessionID string, step Step) error {
	err := r.mutate(ctx, sessionID, func(state *WorkflowState) (bool, error) {
		if state.Approvals[step] {
			return false, nil
		}
		state.Approvals[step] = true
		return true, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("step approved", "session_id", sessionID, "step", step)
	return nil
}

func (r *repo) ResetApproval(ctx context.Context, sessionID string, step Step) error {
	return r.mutate(ctx, sessionID, func(state *WorkflowState) (bool, error) {
		if !state.Approvals[step] {
			return false, nil
		}
		delete(state.Approvals, step)
		return true, nil
	})
}

func (r *repo) CanAdvance(ctx context.Context, sessionID string) bool {
	return r.Get(ctx, sessionID).CanAdvance()
}

func (r *repo) Advance(ctx context.Context, sessionID string) (Step, bool, error) {
	var next Step
	advanced := false

	err := r.mutate(ctx, sessionID, func(state *WorkflowState) (bool, error) {
		if !state.CanAdvance() {
			return false, nil
		}

		n, ok := state.NextStep()
		if !ok {
			return false, nil
		}

		state.CurrentStep = n
		next = n
		advanced = true
		return true, nil
	})
	if err != nil {
		return "", false, err
	}

	if advanced {
		r.logger.Info("workflow advanced", "session_id", sessionID, "step", next)
	}
	return next, advanced, nil
}

func (r *repo) ApproveStep(ctx context.Context, sessionID, stepName string) ApprovalResult {
	return approveStep(ctx, r, sessionID, stepName)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Summary], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	sessions, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(sessions, total, page.Page, page.PageSize)
	return &result, nil
}

// mutate runs a read-modify-write cycle for one session under both the
// in-process session mutex and a transactional row lock. The mutation
// function returns false to skip the write entirely, leaving updated_at
// untouched.
func (r *repo) mutate(
	ctx context.Context,
	sessionID string,
	fn func(state *WorkflowState) (bool, error),
) error {
	mu := r.locks.get(sessionID)
	mu.Lock()
	defer mu.Unlock()

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		state, err := r.readForUpdate(ctx, tx, sessionID)
		if err != nil {
			return struct{}{}, err
		}

		write, err := fn(state)
		if err != nil {
			return struct{}{}, err
		}
		if !write {
			return struct{}{}, nil
		}

		state.UpdatedAt = time.Now().UTC()

		row, err := serializeState(state)
		if err != nil {
			return struct{}{}, err
		}

		_, err = tx.ExecContext(
			ctx, upsertStateSQL,
			sessionID,
			row.CurrentStep,
			row.ChallengeData,
			row.SeedImagePath,
			row.BookContent,
			row.Illustrations,
			row.PDFPath,
			row.Approvals,
			row.CreatedAt,
			row.UpdatedAt,
		)
		if err != nil {
			return struct{}{}, fmt.Errorf("write workflow state: %w", err)
		}

		return struct{}{}, nil
	})

	if err != nil {
		r.logger.Error(
			"workflow state write failed",
			"session_id", sessionID,
			"error", err,
		)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return nil
}

func (r *repo) readForUpdate(ctx context.Context, tx *sql.Tx, sessionID string) (*WorkflowState, error) {
	row, err := repository.QueryOne(ctx, tx, selectStateForUpdateSQL, []any{sessionID}, scanState)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("read workflow state: %w", err)
	}
	return deserializeState(row)
}
