package sessions

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/storytime-labs/storytime/internal/books"
	"github.com/storytime-labs/storytime/internal/challenges"
	"github.com/storytime-labs/storytime/pkg/query"
	"github.com/storytime-labs/storytime/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workflow_sessions", "ws").
	Project("session_id", "SessionID").
	Project("current_step", "CurrentStep").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "updated_at",
	Descending: true,
}

// Summary is the listing view of a session: identity and progress
// without the serialized step payloads.
type Summary struct {
	SessionID   string    `json:"session_id"`
	CurrentStep Step      `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filters contains optional filtering criteria for session queries.
// Nil fields are ignored.
type Filters struct {
	CurrentStep *Step `json:"current_step,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("CurrentStep", f.CurrentStep)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("current_step"); s != "" {
		if step, err := ParseStep(s); err == nil {
			f.CurrentStep = &step
		}
	}

	return f
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sum Summary
	err := s.Scan(
		&sum.SessionID,
		&sum.CurrentStep,
		&sum.CreatedAt,
		&sum.UpdatedAt,
	)
	return sum, err
}

// stateRow mirrors the workflow_sessions table: structured fields are
// serialized to JSON text columns that round-trip exactly.
type stateRow struct {
	CurrentStep   string
	ChallengeData sql.NullString
	SeedImagePath sql.NullString
	BookContent   sql.NullString
	Illustrations string
	PDFPath       sql.NullString
	Approvals     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func serializeState(s *WorkflowState) (*stateRow, error) {
	row := &stateRow{
		CurrentStep: string(s.CurrentStep),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	if s.ChallengeData != nil {
		data, err := json.Marshal(s.ChallengeData)
		if err != nil {
			return nil, fmt.Errorf("serialize challenge data: %w", err)
		}
		row.ChallengeData = sql.NullString{String: string(data), Valid: true}
	}

	if s.BookContent != nil {
		data, err := json.Marshal(s.BookContent)
		if err != nil {
			return nil, fmt.Errorf("serialize book content: %w", err)
		}
		row.BookContent = sql.NullString{String: string(data), Valid: true}
	}

	if s.SeedImagePath != "" {
		row.SeedImagePath = sql.NullString{String: s.SeedImagePath, Valid: true}
	}
	if s.PDFPath != "" {
		row.PDFPath = sql.NullString{String: s.PDFPath, Valid: true}
	}

	illustrations, err := json.Marshal(s.Illustrations)
	if err != nil {
		return nil, fmt.Errorf("serialize illustrations: %w", err)
	}
	row.Illustrations = string(illustrations)

	approvals, err := json.Marshal(s.Approvals)
	if err != nil {
		return nil, fmt.Errorf("serialize approvals: %w", err)
	}
	row.Approvals = string(approvals)

	return row, nil
}

func deserializeState(row *stateRow) (*WorkflowState, error) {
	step, err := ParseStep(row.CurrentStep)
	if err != nil {
		return nil, fmt.Errorf("deserialize current step %q: %w", row.CurrentStep, err)
	}

	state := &WorkflowState{
		CurrentStep:   step,
		Illustrations: make(map[int]string),
		Approvals:     make(map[Step]bool),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}

	if row.ChallengeData.Valid {
		var cd challenges.ChallengeData
		if err := json.Unmarshal([]byte(row.ChallengeData.String), &cd); err != nil {
			return nil, fmt.Errorf("deserialize challenge data: %w", err)
		}
		state.ChallengeData = &cd
	}

	if row.BookContent.Valid {
		var bc books.BookContent
		if err := json.Unmarshal([]byte(row.BookContent.String), &bc); err != nil {
			return nil, fmt.Errorf("deserialize book content: %w", err)
		}
		state.BookContent = &bc
	}

	if row.SeedImagePath.Valid {
		state.SeedImagePath = row.SeedImagePath.String
	}
	if row.PDFPath.Valid {
		state.PDFPath = row.PDFPath.String
	}

	if row.Illustrations != "" {
		if err := json.Unmarshal([]byte(row.Illustrations), &state.Illustrations); err != nil {
			return nil, fmt.Errorf("deserialize illustrations: %w", err)
		}
	}
	if row.Approvals != "" {
		if err := json.Unmarshal([]byte(row.Approvals), &state.Approvals); err != nil {
			return nil, fmt.Errorf("deserialize approvals: %w", err)
		}
	}

	return state, nil
}

func scanState(s repository.Scanner) (*stateRow, error) {
	var row stateRow
	err := s.Scan(
		&row.CurrentStep,
		&row.ChallengeData,
		&row.SeedImagePath,
		&row.BookContent,
		&row.Illustrations,
		&row.PDFPath,
		&row.Approvals,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return &row, err
}
