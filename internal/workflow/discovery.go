package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/storytime-labs/storytime/internal/challenges"
	"github.com/storytime-labs/storytime/internal/prompts"
	"github.com/storytime-labs/storytime/internal/sessions"
	"github.com/storytime-labs/storytime/pkg/formatting"
)

// DiscoveryNode returns a state node that produces the session's
// ChallengeData. Structured challenge input is validated directly; free
// parent text goes through the discovery model first. Re-running
// replaces the prior challenge and clears its approval.
func DiscoveryNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sessionID, err := extractSessionID(s)
		if err != nil {
			return s, fmt.Errorf("discovery: %w", err)
		}

		req, err := extractRequest(s)
		if err != nil {
			return s, fmt.Errorf("discovery: %w", err)
		}

		cmd, err := resolveChallengeCommand(ctx, rt, req)
		if err != nil {
			return s, fmt.Errorf("discovery: %w", err)
		}

		data, err := challenges.New(cmd)
		if err != nil {
			return s, fmt.Errorf("discovery: %w: %w", ErrDiscoveryFailed, err)
		}

		if err := rt.Sessions.Update(ctx, sessionID, sessions.Patch{
			ChallengeData: data,
		}); err != nil {
			return s, fmt.Errorf("discovery: %w", err)
		}

		if err := rt.Sessions.ResetApproval(ctx, sessionID, sessions.StepDiscovery); err != nil {
			return s, fmt.Errorf("discovery: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "discovery node complete",
			"session_id", sessionID,
			"child_name", data.ChildName,
			"challenge_type", data.ChallengeType,
		)

		return s, nil
	})
}

func resolveChallengeCommand(ctx context.Context, rt *Runtime, req Request) (challenges.CreateCommand, error) {
	if req.Challenge != nil {
		return challenges.CreateCommand{
			ChildName:         req.Challenge.ChildName,
			ChildAge:          req.Challenge.ChildAge,
			ChildGender:       req.Challenge.ChildGender,
			Details:           req.Challenge.Details,
			DesiredOutcome:    req.Challenge.DesiredOutcome,
			AdditionalContext: req.Challenge.AdditionalContext,
		}, nil
	}

	if req.ParentInput == "" {
		return challenges.CreateCommand{}, ErrMissingInput
	}

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageDiscovery, "")
	if err != nil {
		return challenges.CreateCommand{}, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	resp, err := rt.Generator.Text(ctx, textRequest(prompt, req.ParentInput))
	if err != nil {
		return challenges.CreateCommand{}, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	cmd, err := formatting.Parse[challenges.CreateCommand](resp)
	if err != nil {
		return challenges.CreateCommand{}, fmt.Errorf("%w: parse response: %w", ErrDiscoveryFailed, err)
	}

	return cmd, nil
}
