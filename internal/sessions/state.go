// Package sessions implements the workflow state domain for StoryTime.
// It provides the per-session WorkflowState aggregate, the state manager
// that owns its persistence, and the approval gate that records human
// sign-off on each pipeline step.
package sessions

import (
	"time"

	"github.com/storytime-labs/storytime/internal/books"
	"github.com/storytime-labs/storytime/internal/challenges"
)

// WorkflowState is the aggregate root for one book-creation session.
// It records the current pipeline step, the data each step has produced,
// and per-step human approvals. All mutation goes through the System.
type WorkflowState struct {
	CurrentStep   Step                      `json:"current_step"`
	ChallengeData *challenges.ChallengeData `json:"challenge_data,omitempty"`
	SeedImagePath string                    `json:"seed_image_path,omitempty"`
	BookContent   *books.BookContent        `json:"book_content,omitempty"`
	Illustrations map[int]string            `json:"illustrations"`
	PDFPath       string                    `json:"pdf_path,omitempty"`
	Approvals     map[Step]bool             `json:"approvals"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// NewState returns the default state for a fresh session, positioned at
// the discovery step with nothing produced or approved.
func NewState() *WorkflowState {
	now := time.Now().UTC()
	return &WorkflowState{
		CurrentStep:   StepDiscovery,
		Illustrations: make(map[int]string),
		Approvals:     make(map[Step]bool),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// StepCompleted reports whether a step has produced its defining data.
// Completion is a pure function of the state's data fields and is
// independent of approval.
func (s *WorkflowState) StepCompleted(step Step) bool {
	switch step {
	case StepDiscovery:
		return s.ChallengeData != nil
	case StepSeedImage:
		return s.SeedImagePath != ""
	case StepNarration:
		return s.BookContent != nil
	case StepIllustration:
		if s.BookContent == nil {
			return false
		}
		return len(s.Illustrations) == s.BookContent.TotalPages
	case StepPDFGeneration:
		return s.PDFPath != ""
	case StepCompleted:
		return true
	}
	return false
}

// StepApproved reports whether a step has explicit human sign-off.
func (s *WorkflowState) StepApproved(step Step) bool {
	return s.Approvals[step]
}

// CanAdvance reports whether the current step is both completed and
// approved. Approval is never inferred from completion.
func (s *WorkflowState) CanAdvance() bool {
	return s.StepCompleted(s.CurrentStep) && s.StepApproved(s.CurrentStep)
}

// NextStep returns the step after the current one, or false when the
// session has reached the terminal step.
func (s *WorkflowState) NextStep() (Step, bool) {
	return s.CurrentStep.Next()
}

// clone returns a deep copy so callers receive snapshots that cannot
// alias the manager's internal state.
func (s *WorkflowState) clone() *WorkflowState {
	out := *s

	out.Illustrations = make(map[int]string, len(s.Illustrations))
	for k, v := range s.Illustrations {
		out.Illustrations[k] = v
	}

	out.Approvals = make(map[Step]bool, len(s.Approvals))
	for k, v := range s.Approvals {
		out.Approvals[k] = v
	}

	if s.ChallengeData != nil {
		cd := *s.ChallengeData
		out.ChallengeData = &cd
	}
	if s.BookContent != nil {
		bc := *s.BookContent
		bc.Pages = make([]books.BookPage, len(s.BookContent.Pages))
		copy(bc.Pages, s.BookContent.Pages)
		out.BookContent = &bc
	}

	return &out
}

// Patch is a typed partial update applied by Update. Nil fields are left
// untouched; non-nil fields overwrite the corresponding attribute
// wholesale. Approvals are deliberately absent: only the approval gate
// mutates them.
type Patch struct {
	CurrentStep   *Step
	ChallengeData *challenges.ChallengeData
	SeedImagePath *string
	BookContent   *books.BookContent
	Illustrations map[int]string
	PDFPath       *string
}

// apply overwrites state fields from the patch's populated members.
func (p Patch) apply(s *WorkflowState) {
	if p.CurrentStep != nil {
		s.CurrentStep = *p.CurrentStep
	}
	if p.ChallengeData != nil {
		s.ChallengeData = p.ChallengeData
	}
	if p.SeedImagePath != nil {
		s.SeedImagePath = *p.SeedImagePath
	}
	if p.BookContent != nil {
		s.BookContent = p.BookContent
	}
	if p.Illustrations != nil {
		s.Illustrations = p.Illustrations
	}
	if p.PDFPath != nil {
		s.PDFPath = *p.PDFPath
	}
}

// empty reports whether the patch carries no changes.
func (p Patch) empty() bool {
	return p.CurrentStep == nil &&
		p.ChallengeData == nil &&
		p.SeedImagePath == nil &&
		p.BookContent == nil &&
		p.Illustrations == nil &&
		p.PDFPath == nil
}
