package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/storytime-labs/storytime/internal/prompts"
)

// ComposePrompt builds a system prompt by combining tunable instructions,
// immutable specifications, and optional step context for a generation
// stage. When context is empty the prompt contains only instructions and
// spec.
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	stage prompts.Stage,
	stepContext string,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if stepContext != "" {
		sb.WriteString("\n\n")
		sb.WriteString(stepContext)
	}

	return sb.String(), nil
}
