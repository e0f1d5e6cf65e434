// Package challenges implements the challenge domain for StoryTime.
// It provides the ChallengeData value object produced by the discovery
// step, validation of parent-supplied input, and keyword-based challenge
// type inference.
package challenges

import "strings"

// Age bounds for the child described by a challenge.
const (
	MinAge = 1
	MaxAge = 18
)

// ChallengeData describes the child and the challenge the storybook
// addresses. It is created once by the discovery step and never mutated
// afterward; regeneration replaces the whole value.
type ChallengeData struct {
	ChildName         string `json:"child_name"`
	ChildAge          int    `json:"child_age"`
	ChildGender       string `json:"child_gender,omitempty"`
	ChallengeType     string `json:"challenge_type"`
	Details           string `json:"details"`
	DesiredOutcome    string `json:"desired_outcome"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// CreateCommand carries the parent-supplied fields needed to build a
// ChallengeData. ChallengeType is derived, never supplied.
type CreateCommand struct {
	ChildName         string `json:"child_name"`
	ChildAge          int    `json:"child_age"`
	ChildGender       string `json:"child_gender,omitempty"`
	Details           string `json:"details"`
	DesiredOutcome    string `json:"desired_outcome"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// New validates a CreateCommand and constructs a ChallengeData with the
// challenge type inferred from the details text.
func New(cmd CreateCommand) (*ChallengeData, error) {
	if strings.TrimSpace(cmd.ChildName) == "" {
		return nil, ErrEmptyName
	}
	if cmd.ChildAge < MinAge || cmd.ChildAge > MaxAge {
		return nil, ErrInvalidAge
	}
	if strings.TrimSpace(cmd.Details) == "" {
		return nil, ErrEmptyDetails
	}
	if strings.TrimSpace(cmd.DesiredOutcome) == "" {
		return nil, ErrEmptyOutcome
	}

	return &ChallengeData{
		ChildName:         strings.TrimSpace(cmd.ChildName),
		ChildAge:          cmd.ChildAge,
		ChildGender:       strings.TrimSpace(cmd.ChildGender),
		ChallengeType:     InferType(cmd.Details),
		Details:           strings.TrimSpace(cmd.Details),
		DesiredOutcome:    strings.TrimSpace(cmd.DesiredOutcome),
		AdditionalContext: strings.TrimSpace(cmd.AdditionalContext),
	}, nil
}
