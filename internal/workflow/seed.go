package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/storytime-labs/storytime/internal/artifacts"
	"github.com/storytime-labs/storytime/internal/generation"
	"github.com/storytime-labs/storytime/internal/prompts"
	"github.com/storytime-labs/storytime/internal/sessions"
)

// maxPhotoRefs caps how many uploaded reference photos are passed to
// the image model when generating the character sheet.
const maxPhotoRefs = 3

// SeedNode returns a state node that generates the character reference
// sheet for the session's child. Uploaded reference photos, when
// present, are passed to the image model so the character resembles the
// child. Requires completed discovery.
func SeedNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sessionID, err := extractSessionID(s)
		if err != nil {
			return s, fmt.Errorf("seed: %w", err)
		}

		req, err := extractRequest(s)
		if err != nil {
			return s, fmt.Errorf("seed: %w", err)
		}

		ws := rt.Sessions.Get(ctx, sessionID)
		if ws.ChallengeData == nil {
			return s, fmt.Errorf("seed: %w: discovery has not produced challenge data", ErrPrerequisiteNotMet)
		}

		prompt, err := composeSeedPrompt(ctx, rt, ws.ChallengeData.ChildName, ws.ChallengeData.ChildAge, ws.ChallengeData.ChildGender, req.ArtStyle)
		if err != nil {
			return s, fmt.Errorf("seed: %w", err)
		}

		refs, err := loadPhotoReferences(ctx, rt, sessionID)
		if err != nil {
			return s, fmt.Errorf("seed: %w", err)
		}

		img, err := rt.Generator.Image(ctx, generation.ImageRequest{
			Prompt:     prompt,
			References: refs,
		})
		if err != nil {
			return s, fmt.Errorf("seed: %w: %w", ErrSeedFailed, err)
		}

		key, err := rt.Artifacts.Save(ctx, sessionID, artifacts.CategorySeed, img.MIMEType, img.Data)
		if err != nil {
			return s, fmt.Errorf("seed: %w: %w", ErrSeedFailed, err)
		}

		if err := rt.Sessions.Update(ctx, sessionID, sessions.Patch{
			SeedImagePath: &key,
		}); err != nil {
			return s, fmt.Errorf("seed: %w", err)
		}

		if err := rt.Sessions.ResetApproval(ctx, sessionID, sessions.StepSeedImage); err != nil {
			return s, fmt.Errorf("seed: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "seed node complete",
			"session_id", sessionID,
			"key", key,
			"reference_photos", len(refs),
		)

		return s, nil
	})
}

func composeSeedPrompt(ctx context.Context, rt *Runtime, name string, age int, gender, artStyle string) (string, error) {
	if gender == "" {
		gender = "child"
	}
	if artStyle == "" {
		artStyle = "soft watercolor with warm colors"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Character Name: %s\n", name)
	fmt.Fprintf(&sb, "Character Age: %d years old\n", age)
	fmt.Fprintf(&sb, "Character: a %d-year-old %s\n", age, gender)
	fmt.Fprintf(&sb, "Art Style: %s", artStyle)

	return ComposePrompt(ctx, rt.Prompts, prompts.StageSeedImage, sb.String())
}

// loadPhotoReferences returns up to maxPhotoRefs uploaded photos for the
// session. Sessions without uploads generate from the description alone.
func loadPhotoReferences(ctx context.Context, rt *Runtime, sessionID string) ([]generation.Reference, error) {
	keys, err := rt.Artifacts.List(ctx, sessionID, artifacts.CategoryPhoto)
	if err != nil {
		return nil, fmt.Errorf("%w: list photos: %w", ErrSeedFailed, err)
	}

	if len(keys) > maxPhotoRefs {
		keys = keys[:maxPhotoRefs]
	}

	refs := make([]generation.Reference, 0, len(keys))
	for _, key := range keys {
		data, err := rt.Artifacts.Load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: load photo %s: %w", ErrSeedFailed, key, err)
		}
		refs = append(refs, generation.Reference{
			MIMEType: artifacts.ContentType(key),
			Data:     data,
		})
	}

	return refs, nil
}
