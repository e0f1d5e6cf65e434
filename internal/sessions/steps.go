package sessions

import (
	"encoding/json"
	"slices"
)

// Step represents a stage of the fixed book-creation pipeline.
type Step string

// Pipeline steps in execution order.
const (
	StepDiscovery     Step = "discovery"
	StepSeedImage     Step = "seed_image"
	StepNarration     Step = "narration"
	StepIllustration  Step = "illustration"
	StepPDFGeneration Step = "pdf_generation"
	StepCompleted     Step = "completed"
)

// stepOrder is the total order of the pipeline. Advancement only ever
// moves forward along this sequence.
var stepOrder = []Step{
	StepDiscovery,
	StepSeedImage,
	StepNarration,
	StepIllustration,
	StepPDFGeneration,
	StepCompleted,
}

// Steps returns the full pipeline order.
func Steps() []Step {
	return stepOrder
}

// ParseStep validates a string as a known pipeline step.
// Returns ErrInvalidStep if the value is not recognized.
func ParseStep(s string) (Step, error) {
	v := Step(s)
	if !slices.Contains(stepOrder, v) {
		return "", ErrInvalidStep
	}
	return v, nil
}

// Next returns the step following s in the pipeline order, or empty string
// and false when s is the terminal step or unrecognized.
func (s Step) Next() (Step, bool) {
	idx := slices.Index(stepOrder, s)
	if idx < 0 || idx >= len(stepOrder)-1 {
		return "", false
	}
	return stepOrder[idx+1], true
}

// Before reports whether s precedes other in the pipeline order.
func (s Step) Before(other Step) bool {
	return slices.Index(stepOrder, s) < slices.Index(stepOrder, other)
}

// UnmarshalJSON validates that the decoded string is a known step value.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStep(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
