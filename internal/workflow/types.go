package workflow

import (
	"time"

	"github.com/storytime-labs/storytime/internal/generation"
	"github.com/storytime-labs/storytime/internal/sessions"
)

// Page count bounds for generated books.
const (
	MinPages     = 4
	MaxPages     = 20
	DefaultPages = 8
)

// maxIllustrationRefs caps how many prior page illustrations are passed
// to the image model alongside the seed image.
const maxIllustrationRefs = 3

// State bag keys shared across workflow nodes.
const (
	KeySessionID = "session_id"
	KeyStep      = "step"
	KeyRequest   = "request"
	KeyOutcome   = "outcome"
)

// Request carries the optional parameters for running the session's
// current step. Each step reads only the fields it understands.
type Request struct {
	// ParentInput is the parent's free-text description of the child
	// and the challenge, consumed by the discovery step. When Challenge
	// is set instead, discovery skips the model call.
	ParentInput string `json:"parent_input,omitempty"`

	// Challenge supplies structured discovery data directly.
	Challenge *ChallengeInput `json:"challenge,omitempty"`

	// ArtStyle describes the visual style for the seed image.
	ArtStyle string `json:"art_style,omitempty"`

	// NumPages sets the book length for narration. Zero means default.
	NumPages int `json:"num_pages,omitempty"`

	// StylePreference tunes the narration tone (e.g. "rhyming").
	StylePreference string `json:"style_preference,omitempty"`
}

// ChallengeInput mirrors the discovery form fields.
type ChallengeInput struct {
	ChildName         string `json:"child_name"`
	ChildAge          int    `json:"child_age"`
	ChildGender       string `json:"child_gender,omitempty"`
	Details           string `json:"details"`
	DesiredOutcome    string `json:"desired_outcome"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

func textRequest(instructions, prompt string) generation.TextRequest {
	return generation.TextRequest{Instructions: instructions, Prompt: prompt}
}

// Outcome reports the result of running one workflow step.
type Outcome struct {
	SessionID   string                  `json:"session_id"`
	Step        sessions.Step           `json:"step"`
	Completed   bool                    `json:"completed"`
	State       *sessions.WorkflowState `json:"state"`
	CompletedAt time.Time               `json:"completed_at"`
}
