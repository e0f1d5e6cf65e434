package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents a generation stage that a prompt override targets.
// PDF assembly is deterministic and has no prompt stage.
type Stage string

// Valid generation stages.
const (
	StageDiscovery    Stage = "discovery"
	StageSeedImage    Stage = "seed_image"
	StageNarration    Stage = "narration"
	StageIllustration Stage = "illustration"
)

var stages = []Stage{
	StageDiscovery,
	StageSeedImage,
	StageNarration,
	StageIllustration,
}

// Stages returns the list of valid generation stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known generation stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
